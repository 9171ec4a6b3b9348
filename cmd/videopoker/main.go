package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"jacks-lite/bank"
	"jacks-lite/jacks"
)

func main() {
	storeMode := flag.String("store", "sqlite", "persistence backend: sqlite|memory")
	dbPath := flag.String("db", "", "sqlite database path override")
	machinePath := flag.String("config", "", "optional machine yaml file")
	seed := flag.Int64("seed", 0, "rng seed (0 = time-based)")
	noBonus := flag.Bool("nobonus", false, "disable the double-or-nothing bonus")
	flag.Parse()

	handler := pterm.NewSlogHandler(&pterm.DefaultLogger)
	logger := slog.New(handler)

	if *dbPath != "" {
		os.Setenv("VP_LOCAL_DATABASE_PATH", *dbPath)
	}
	store, backend, err := bank.NewServiceFromEnv(*storeMode)
	if err != nil {
		logger.Error("open bank failed", "err", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("bank ready", "backend", backend)

	cfg := jacks.Config{
		BonusEnabled: !*noBonus,
		Seed:         *seed,
		Store:        store,
	}
	if *machinePath != "" {
		file, err := jacks.LoadMachineFile(*machinePath)
		if err != nil {
			logger.Error("load machine file failed", "err", err)
			os.Exit(1)
		}
		if err := file.Apply(&cfg); err != nil {
			logger.Error("apply machine file failed", "err", err)
			os.Exit(1)
		}
	}

	game, err := jacks.NewGame(cfg)
	if err != nil {
		logger.Error("new game failed", "err", err)
		os.Exit(1)
	}

	pterm.Print("\n")
	title, err := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Jacks ", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("Lite", pterm.FgDarkGray.ToStyle()),
	).Srender()
	if err == nil {
		pterm.Print(title)
	}
	pterm.Println()

	for {
		snap := game.Snapshot()
		renderSnapshot(snap)

		selected, _ := pterm.DefaultInteractiveSelect.
			WithDefaultText("Select your next action").
			WithOptions(menuOptions(snap)).
			Show()

		if done := dispatch(game, store, snap, selected); done {
			break
		}
	}

	pterm.Println("Thanks for playing.")
}

const (
	optBetOne  = "Bet One"
	optMaxBet  = "Max Bet"
	optDeal    = "Deal"
	optDraw    = "Draw"
	optAccept  = "Double Up"
	optDecline = "Collect Win"
	optRed     = "Guess Red"
	optBlack   = "Guess Black"
	optCollect = "Collect"
	optHistory = "History"
	optNewRun  = "New Game"
	optQuit    = "Quit"
)

func menuOptions(snap jacks.Snapshot) []string {
	var opts []string
	switch snap.Stage {
	case jacks.StageBetting:
		if snap.Credits > 0 {
			opts = append(opts, optDeal, optBetOne, optMaxBet)
		}
	case jacks.StageDrawn:
		for i := 0; i < jacks.HandSize; i++ {
			opts = append(opts, holdOption(snap, i))
		}
		opts = append(opts, optDraw)
	case jacks.StageBonusOffer:
		opts = append(opts, optAccept, optDecline)
	case jacks.StageBonus:
		opts = append(opts, optRed, optBlack)
		if snap.CanCollect {
			opts = append(opts, optCollect)
		}
	}
	return append(opts, optHistory, optNewRun, optQuit)
}

func holdOption(snap jacks.Snapshot, idx int) string {
	verb := "Hold"
	if snap.Hand[idx].Held {
		verb = "Release"
	}
	return fmt.Sprintf("%s %d (%s)", verb, idx+1, snap.Hand[idx].Card)
}

func dispatch(game *jacks.Game, store bank.Service, snap jacks.Snapshot, selected string) bool {
	var err error
	switch {
	case selected == optQuit:
		return true
	case selected == optNewRun:
		if confirm, _ := pterm.DefaultInteractiveConfirm.
			WithDefaultText("Reset credits and start over?").
			WithDefaultValue(false).Show(); confirm {
			game.NewRun()
		}
	case selected == optHistory:
		showHistory(store)
	case selected == optBetOne:
		err = game.BetOne()
	case selected == optMaxBet:
		err = game.MaxBet()
	case selected == optDeal:
		err = game.Deal()
	case selected == optDraw:
		var res *jacks.DrawResult
		res, err = game.Draw()
		if err == nil && res.Payout > 0 {
			pterm.Success.Printfln("%s — pays %d", res.Name, res.Payout)
		}
	case selected == optAccept:
		err = game.AcceptBonus()
	case selected == optDecline:
		err = game.DeclineBonus()
	case selected == optRed || selected == optBlack:
		color := jacks.ColorRed
		if selected == optBlack {
			color = jacks.ColorBlack
		}
		var res *jacks.GuessResult
		res, err = game.GuessColor(color)
		if err == nil {
			if res.Correct {
				pterm.Success.Printfln("%s — doubled to %d", res.Card, res.PendingWin)
			} else {
				pterm.Error.Printfln("%s — win lost", res.Card)
			}
		}
	case selected == optCollect:
		err = game.CollectBonus()
	case strings.HasPrefix(selected, "Hold ") || strings.HasPrefix(selected, "Release "):
		err = game.ToggleHold(holdIndexFromOption(selected))
	}

	if err != nil {
		switch {
		case errors.Is(err, jacks.ErrOutOfCredits):
			pterm.Warning.Println("Out of credits — start a new game.")
		case errors.Is(err, jacks.ErrInsufficientCredits):
			pterm.Warning.Println("Not enough credits for that bet.")
		default:
			pterm.Error.Println(err.Error())
		}
	}
	return false
}

func holdIndexFromOption(selected string) int {
	fields := strings.Fields(selected)
	if len(fields) < 2 {
		return -1
	}
	return int(fields[1][0]-'0') - 1
}

func showHistory(store bank.Service) {
	items, err := store.ListRecent(context.Background(), 15)
	if err != nil {
		pterm.Error.Printfln("history unavailable: %v", err)
		return
	}
	if len(items) == 0 {
		pterm.Info.Println("No rounds recorded yet.")
		return
	}

	rows := pterm.TableData{{"Played", "Bet", "Hand", "Base", "Guesses", "Final", "Credits"}}
	for _, item := range items {
		rows = append(rows, []string{
			item.PlayedAt.Local().Format("15:04:05"),
			fmt.Sprintf("%d", item.Bet),
			item.HandName,
			fmt.Sprintf("%d", item.BasePayout),
			fmt.Sprintf("%d", item.BonusGuesses),
			fmt.Sprintf("%d", item.FinalPayout),
			fmt.Sprintf("%d", item.CreditsAfter),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}
