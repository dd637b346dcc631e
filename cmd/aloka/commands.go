// ABOUTME: Command handlers for the aloka CLI
// ABOUTME: Each handler drives one client operation and prints its notice

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/aloka/nexus/internal/app"
	"github.com/aloka/nexus/internal/audit"
	"github.com/aloka/nexus/internal/auth"
	"github.com/aloka/nexus/internal/conversation"
	"github.com/aloka/nexus/internal/platform"
	"github.com/aloka/nexus/internal/predict"
	"github.com/aloka/nexus/internal/session"
)

// printNotice prints a notice colored by level
func printNotice(n app.Notice) {
	if n.Text == "" {
		return
	}
	var c *color.Color
	out := os.Stdout
	switch n.Level {
	case app.LevelSuccess:
		c = color.New(color.FgGreen)
	case app.LevelWarning:
		c, out = color.New(color.FgYellow), os.Stderr
	case app.LevelError:
		c, out = color.New(color.FgRed), os.Stderr
	default:
		c = color.New(color.FgCyan)
	}
	c.Fprintf(out, "%s\n", n.Text)
	if n.Detail != "" {
		color.New(color.FgHiBlack).Fprintf(out, "  %s\n", n.Detail)
	}
}

// finish prints success when err is nil. A storage failure still counts
// as done: the change stands for this run, so both notices are printed.
func finish(err error, success app.Notice) error {
	if err != nil && !errors.Is(err, session.ErrStorage) {
		return err
	}
	printNotice(success)
	if err != nil {
		printNotice(app.NoticeFor(err))
	}
	return nil
}

// requireMain fails unless onboarding is done and a session is open
func requireMain(a *app.App) error {
	if s := a.Screen(); s != app.ScreenMain {
		return fmt.Errorf("%w: current screen is %s", auth.ErrNotAuthenticated, s)
	}
	return nil
}

func cmdStatus(ctx context.Context, a *app.App, args []string) error {
	doc := a.Snapshot()
	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)

	cyan.Println("Session")
	cyan.Println("-------")
	fmt.Printf("  Screen:        %s\n", a.Screen())
	user := doc.User()
	if user == "" {
		user = "-"
	}
	fmt.Printf("  User:          %s\n", user)
	fmt.Printf("  View:          %s\n", doc.CurrentView)
	fmt.Printf("  Predictions:   %d\n", len(doc.Predictions))
	fmt.Printf("  Wallpaper:     %s\n", doc.Wallpaper())
	fmt.Printf("  Notifications: eliteSignals=%t crashAlerts=%t\n", doc.Notifications.EliteSignals, doc.Notifications.CrashAlerts)

	if doc.SyncedPlatform != nil && doc.SyncedEngine != nil {
		fmt.Printf("  Synced:        %s / %s\n", *doc.SyncedPlatform, *doc.SyncedEngine)
		if url := a.LaunchURL(); url != "" {
			fmt.Printf("  Launch:        %s\n", url)
		}
	} else {
		fmt.Printf("  Synced:        -\n")
	}

	_, chatErr := a.Chat()
	gray.Printf("  analysis/chat: %t\n", chatErr == nil)
	return nil
}

func cmdSubscribe(ctx context.Context, a *app.App, args []string) error {
	return finish(a.AcknowledgeSubscription(ctx), app.Notice{Level: app.LevelSuccess, Text: "ABONNEMENT CONFIRMÉ"})
}

func cmdLogin(ctx context.Context, a *app.App, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: login <id> <password>")
	}
	return finish(a.Auth().Login(ctx, args[0], args[1]), app.NoticeLoggedIn)
}

func cmdLogout(ctx context.Context, a *app.App, args []string) error {
	return finish(a.Auth().Logout(ctx), app.Notice{Level: app.LevelInfo, Text: "SESSION FERMÉE"})
}

func cmdRegister(ctx context.Context, a *app.App, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: register <id> <password> <activation-code>")
	}
	return finish(a.Auth().Register(ctx, args[0], args[1], args[2]), app.NoticeRegistered)
}

func cmdReset(ctx context.Context, a *app.App, args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("usage: reset <id> <new-password> <confirm-password> <security-code>")
	}
	return finish(a.Auth().ResetPassword(ctx, args[0], args[1], args[2], args[3]), app.NoticePasswordReset)
}

func cmdProfile(ctx context.Context, a *app.App, args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("usage: profile <new-id> <new-password> <confirm-password> <activation-code>")
	}
	if err := requireMain(a); err != nil {
		return err
	}
	return finish(a.Auth().UpdateProfile(ctx, args[0], args[1], args[2], args[3]), app.NoticeAccountSaved)
}

func cmdAnalyze(ctx context.Context, a *app.App, args []string) error {
	flags, positional, err := parseArgs(args, "mode", "time", "multiplier", "round")
	if err != nil {
		return err
	}
	mode, err := predict.ParseMode(flags["mode"])
	if err != nil {
		return err
	}
	if err := requireMain(a); err != nil {
		return err
	}

	var p session.Prediction
	switch {
	case len(positional) == 1:
		image, err := os.ReadFile(positional[0])
		if err != nil {
			return fmt.Errorf("reading capture: %w", err)
		}
		color.New(color.FgHiBlack).Println("scanning...")
		p, err = a.Analyze(ctx, mode, image)
		if err != nil && !errors.Is(err, session.ErrStorage) {
			return err
		}
		printPrediction(p)
		return finish(err, app.NoticeAnalysisDone)
	case flags["time"] != "" || flags["multiplier"] != "":
		p, err = a.Predict(ctx, predict.ModeRequest{
			Mode:           mode,
			LastTime:       flags["time"],
			LastMultiplier: flags["multiplier"],
			LastRoundID:    flags["round"],
		})
		if err != nil && !errors.Is(err, session.ErrStorage) {
			return err
		}
		printPrediction(p)
		return finish(err, app.NoticeAnalysisDone)
	default:
		return fmt.Errorf("usage: analyze --mode <mode> <image> | analyze --mode <mode> --time <t> --multiplier <m>")
	}
}

func cmdSeed(ctx context.Context, a *app.App, args []string) error {
	flags, positional, err := parseArgs(args, "source", "m1", "m2", "time")
	if err != nil {
		return err
	}
	source, err := predict.ParseSource(flags["source"])
	if err != nil {
		return err
	}
	if err := requireMain(a); err != nil {
		return err
	}

	var p session.Prediction
	switch {
	case len(positional) == 1:
		image, err := os.ReadFile(positional[0])
		if err != nil {
			return fmt.Errorf("reading capture: %w", err)
		}
		color.New(color.FgHiBlack).Println("scanning seed...")
		p, err = a.Seed(ctx, source, image)
		if err != nil && !errors.Is(err, session.ErrStorage) {
			return err
		}
		printPrediction(p)
		return finish(err, app.NoticeSeedDone)
	case flags["m1"] != "" || flags["m2"] != "":
		p, err = a.PredictDirect(ctx, predict.SeedRequest{
			Multiplier1: flags["m1"],
			Multiplier2: flags["m2"],
			BaseTime:    flags["time"],
			Source:      source,
		})
		if err != nil && !errors.Is(err, session.ErrStorage) {
			return err
		}
		printPrediction(p)
		return finish(err, app.NoticeSeedDone)
	default:
		return fmt.Errorf("usage: seed [--source <site>] <image> | seed --m1 <x> --m2 <y> [--time <t>]")
	}
}

// printPrediction prints the signals of one prediction
func printPrediction(p session.Prediction) {
	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)

	cyan.Printf("%s  %s", p.Mode, p.Platform)
	if p.Engine != nil {
		cyan.Printf(" / %s", *p.Engine)
	}
	fmt.Println()
	gray.Printf("  id %s  round %s  input %s @ %s\n", p.ID, p.Audit.RoundID, p.InputMultiplier, p.InputTime)
	printSignal(p.Results.Res1)
	if p.Results.Res2 != nil {
		printSignal(*p.Results.Res2)
	}
}

func printSignal(s session.Signal) {
	green := color.New(color.FgGreen, color.Bold)
	fmt.Printf("  %s  ", s.Time)
	green.Printf("%sx", s.Multiplier)
	fmt.Printf("  %s (%d%%)\n", s.Label, s.Confidence)
}

func cmdHistory(ctx context.Context, a *app.App, args []string) error {
	if err := requireMain(a); err != nil {
		return err
	}
	history := a.History()
	if len(history) == 0 {
		fmt.Println("No predictions.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tMODE\tPLATFORM\tTIME\tMULTIPLIER\tCONFIDENCE\tROUND")
	for _, p := range history {
		r := p.Results.Res1
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%sx\t%d%%\t%s\n",
			p.ID, p.Mode, p.Platform, r.Time, r.Multiplier, r.Confidence, p.Audit.RoundID)
	}
	return w.Flush()
}

func cmdClear(ctx context.Context, a *app.App, args []string) error {
	if err := requireMain(a); err != nil {
		return err
	}
	return finish(a.ClearHistory(ctx), app.NoticeHistoryClear)
}

func cmdVerify(ctx context.Context, a *app.App, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: verify <prediction-id>")
	}
	if err := requireMain(a); err != nil {
		return err
	}

	check, err := a.Verify(ctx, args[0])
	if err != nil {
		return err
	}
	color.New(color.FgHiBlack).Printf("%s...\n", audit.StateChecking)

	state, err := check.Wait(ctx)
	if err != nil {
		a.CloseAudit(args[0])
		return err
	}
	printNotice(app.Notice{Level: app.LevelSuccess, Text: app.NoticeVerified.Text, Detail: string(state)})
	return nil
}

func cmdPlatforms(ctx context.Context, a *app.App, args []string) error {
	doc := a.Snapshot()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tNAME\tSTUDIO\tSPRIBE\tURL")
	for _, p := range a.Catalog().Platforms {
		id := p.ID
		if doc.SyncedPlatform != nil && *doc.SyncedPlatform == p.ID {
			id += " *"
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n",
			id, p.Name, availability(p.Engines.Studio), availability(p.Engines.Spribe), p.URL)
	}
	return w.Flush()
}

func availability(slot platform.EngineSlot) string {
	if slot.Available {
		return "yes"
	}
	return "no"
}

func cmdSync(ctx context.Context, a *app.App, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: sync <platform> <studio|spribe>")
	}
	if err := requireMain(a); err != nil {
		return err
	}
	engine, err := platform.ParseEngineType(args[1])
	if err != nil {
		return err
	}

	a.OpenSync()
	defer a.CloseSync()

	sel := a.Selector()
	if err := sel.SelectPlatform(args[0]); err != nil {
		return err
	}
	if err := sel.SelectEngine(engine); err != nil {
		return err
	}

	color.New(color.FgHiBlack).Printf("%s...\n", platform.StateVerifying)
	out, err := a.SyncAndWait(ctx)
	if err := finish(err, app.NoticeSynced); err != nil {
		return err
	}
	fmt.Printf("  Platform: %s\n", out.URL)
	if url := a.LaunchURL(); url != "" {
		fmt.Printf("  Launch:   %s\n", url)
	}
	return nil
}

func cmdNavigate(ctx context.Context, a *app.App, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: navigate <view|back>")
	}
	var err error
	if args[0] == "back" {
		err = a.Back(ctx)
	} else {
		err = a.Navigate(ctx, args[0])
	}
	if err := finish(err, app.Notice{}); err != nil {
		return err
	}
	fmt.Printf("%s (%s)\n", a.Snapshot().CurrentView, a.Screen())
	return nil
}

func cmdNotify(ctx context.Context, a *app.App, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: notify <eliteSignals|crashAlerts> <on|off>")
	}
	if err := requireMain(a); err != nil {
		return err
	}
	on, err := parseSwitch(args[1])
	if err != nil {
		return err
	}
	return finish(a.SetNotification(ctx, session.NotificationKey(args[0]), on), app.NoticeNotifications)
}

func cmdWallpaper(ctx context.Context, a *app.App, args []string) error {
	if len(args) == 0 {
		fmt.Println(a.Snapshot().Wallpaper())
		return nil
	}

	switch args[0] {
	case "accept":
		ref := ""
		if len(args) > 1 {
			ref = args[1]
		}
		return finish(a.AcceptWallpaper(ctx, ref), app.NoticeWallpaper)
	case "set":
		if len(args) != 2 {
			return fmt.Errorf("usage: wallpaper set <ref>")
		}
		return finish(a.SetWallpaper(ctx, args[1]), app.NoticeWallpaper)
	case "reset":
		return finish(a.WallpaperFailed(ctx), app.NoticeWallpaper)
	case "light":
		if len(args) != 2 {
			return fmt.Errorf("usage: wallpaper light <on|off>")
		}
		on, err := parseSwitch(args[1])
		if err != nil {
			return err
		}
		return finish(a.SetLightBg(ctx, on), app.NoticeWallpaper)
	default:
		return fmt.Errorf("unknown wallpaper subcommand: %s", args[0])
	}
}

func cmdChat(ctx context.Context, a *app.App, args []string) error {
	if err := requireMain(a); err != nil {
		return err
	}
	chat, err := a.Chat()
	if err != nil {
		return err
	}

	if len(args) > 0 {
		switch args[0] {
		case "history":
			for _, m := range chat.Messages() {
				printMessage(m)
			}
			return nil
		case "clear":
			chat.Clear(ctx)
			printNotice(app.Notice{Level: app.LevelInfo, Text: "CONVERSATION EFFACÉE"})
			return nil
		case "translate":
			if len(args) != 2 {
				return fmt.Errorf("usage: chat translate <message-id>")
			}
			m, err := chat.Translate(ctx, args[1], a.TranslationLanguage())
			if err != nil {
				return err
			}
			printMessage(m)
			return nil
		}

		reply, err := chat.Send(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		printMessage(reply)
		return nil
	}

	feed, err := a.ChatFeed()
	if err != nil {
		return err
	}
	return chatREPL(ctx, chat, feed, a.TranslationLanguage())
}

// chatREPL runs an interactive read-eval-print loop. Everything it shows
// after the initial history comes from the chat feed, so sends, clears and
// translations render the same way.
func chatREPL(ctx context.Context, chat *conversation.Service, feed *conversation.Broadcaster, language string) error {
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	messages, subID := feed.Subscribe(ctx)
	defer feed.Unsubscribe(subID)

	cyan.Println("Aloka assistant (Ctrl+D to exit, /clear, /translate <message-id>)")
	fmt.Println()
	for _, m := range chat.Messages() {
		printMessage(m)
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), 1024*1024)
	for {
		green.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if err := chatLine(ctx, chat, line, language); err != nil {
			printNotice(app.NoticeFor(err))
		}
		drainFeed(messages, printMessage)
		if ctx.Err() != nil {
			return nil
		}
	}
}

// chatLine runs one REPL input: a slash command or a message to send
func chatLine(ctx context.Context, chat *conversation.Service, line, language string) error {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/clear":
		chat.Clear(ctx)
		return nil
	case "/translate":
		if len(fields) != 2 {
			return fmt.Errorf("usage: /translate <message-id>")
		}
		_, err := chat.Translate(ctx, fields[1], language)
		return err
	}
	_, err := chat.Send(ctx, line)
	return err
}

// drainFeed renders every message already waiting on the feed and returns
// how many it rendered. The user's own messages are skipped: the terminal
// already shows what was typed.
func drainFeed(messages <-chan conversation.Message, render func(conversation.Message)) int {
	n := 0
	for {
		select {
		case m, ok := <-messages:
			if !ok {
				return n
			}
			if m.Role == conversation.RoleUser {
				continue
			}
			render(m)
			n++
		default:
			return n
		}
	}
}

func printMessage(m conversation.Message) {
	gray := color.New(color.FgHiBlack)
	switch {
	case m.Role == conversation.RoleUser:
		color.New(color.FgGreen).Printf("you: ")
	case m.Failed:
		color.New(color.FgRed).Printf("aloka: ")
	default:
		color.New(color.FgCyan).Printf("aloka: ")
	}
	fmt.Println(m.Content)
	if m.Translation != "" {
		gray.Printf("  ↳ %s\n", m.Translation)
	}
	gray.Printf("  %s\n", m.ID)
}
