package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/luca-patrignani/lobby3pc/directory"
	"github.com/luca-patrignani/lobby3pc/domain/lobby"
	"github.com/luca-patrignani/lobby3pc/session"
)

const (
	actionCreate  = "Create a lobby"
	actionJoin    = "Join a lobby"
	actionPropose = "Propose a state"
	actionChat    = "Send a chat message"
	actionPeers   = "Show peers"
	actionHistory = "Show history"
	actionQuit    = "Quit"
)

func main() {
	ipFlag := flag.String("ip", "", "address to listen on; a partial one such as 42 is completed from the local address")
	name := flag.String("name", "", "user name shown to the other peers")
	dirURL := flag.String("directory", envOr("LOBBY_DIRECTORY", ""), "base URL of the lobby directory; looked up on local ports 8080-8090 when empty")
	verbose := flag.Bool("v", false, "log debug messages")
	flag.Parse()

	if *verbose {
		pterm.DefaultLogger.Level = pterm.LogLevelDebug
	}
	logger := slog.New(pterm.NewSlogHandler(&pterm.DefaultLogger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, logger, *ipFlag, *name, *dirURL); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, ipFlag, name, dirURL string) error {
	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Lobby ", pterm.FgDarkGray.ToStyle()),
		putils.LettersFromStringWithStyle("3PC", pterm.FgRed.ToStyle()),
	).Render()

	if name == "" {
		name, _ = pterm.DefaultInteractiveTextInput.WithDefaultText("Enter your username").Show()
		pterm.Println()
	}
	ip, err := resolveIP(ipFlag)
	if err != nil {
		return err
	}

	ui := &printer{logger: logger}
	s, err := session.New(ip, name, session.WithLogger(logger), session.WithListener(ui))
	if err != nil {
		return err
	}
	ui.session = s
	if err := s.Start(ctx); err != nil {
		return err
	}
	defer s.Close()

	pterm.Info.Printfln("Listening on %s", s.Self().Address())
	if subnet, err := subnetOf(s.Addr()); err == nil {
		pterm.Info.Printfln("Reachable from %s", subnet.String())
	}
	pterm.Print("\n")

	if dirURL == "" {
		spinner, _ := pterm.DefaultSpinner.Start("Looking for a lobby directory...")
		dirURL, err = directory.Discover(ctx, "127.0.0.1")
		if err != nil {
			spinner.Fail()
			return err
		}
		spinner.Success("Using the directory at " + dirURL)
	}
	dir := directory.NewClient(dirURL, directory.WithClientLogger(logger))
	if err := enterLobby(ctx, s, dir); err != nil {
		return err
	}
	return commandLoop(ctx, s)
}

func enterLobby(ctx context.Context, s *session.Session, dir *directory.Client) error {
	for {
		choice, _ := pterm.DefaultInteractiveSelect.WithDefaultText("Create or join a lobby").
			WithOptions([]string{actionCreate, actionJoin}).Show()
		var err error
		switch choice {
		case actionCreate:
			err = createLobby(ctx, s, dir)
		case actionJoin:
			err = joinLobby(ctx, s, dir)
		default:
			return fmt.Errorf("unknown choice %q", choice)
		}
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		pterm.Error.Println(err)
	}
}

func createLobby(ctx context.Context, s *session.Session, dir *directory.Client) error {
	name, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("Lobby name").Show()
	spinner, _ := pterm.DefaultSpinner.Start("Creating the lobby...")
	if err := s.CreateLobby(ctx, dir, name); err != nil {
		spinner.Fail()
		return err
	}
	spinner.Success()
	return nil
}

func joinLobby(ctx context.Context, s *session.Session, dir *directory.Client) error {
	spinner, _ := pterm.DefaultSpinner.Start("Fetching the lobbies...")
	lobbies, err := dir.List(ctx)
	if err != nil {
		spinner.Fail()
		return err
	}
	spinner.Success()

	var name string
	if len(lobbies) == 0 {
		pterm.Warning.Println("The directory lists no lobby")
		name, _ = pterm.DefaultInteractiveTextInput.WithDefaultText("Lobby name").Show()
	} else {
		names := make([]string, 0, len(lobbies))
		for _, l := range lobbies {
			names = append(names, l.Name)
		}
		name, _ = pterm.DefaultInteractiveSelect.WithDefaultText("Select a lobby").WithOptions(names).Show()
	}

	spinner, _ = pterm.DefaultSpinner.Start("Joining " + name + "...")
	if err := s.JoinLobby(ctx, dir, name); err != nil {
		spinner.Fail()
		return err
	}
	spinner.Success()
	return nil
}

func commandLoop(ctx context.Context, s *session.Session) error {
	actions := []string{actionPropose, actionChat, actionPeers, actionHistory, actionQuit}
	for ctx.Err() == nil {
		pterm.Println(lobbyPanel(s.Lobby().Name, s.Self(), s.Lobby().Len()))
		choice, _ := pterm.DefaultInteractiveSelect.WithDefaultText("What next?").WithOptions(actions).Show()
		switch choice {
		case actionPropose:
			value, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("New state").Show()
			p, err := s.Propose(ctx, lobby.State{Value: value})
			if err != nil {
				pterm.Error.Println(err)
				continue
			}
			pterm.Info.Printfln("Proposal %s sent", p.ID)
		case actionChat:
			text, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("Message").Show()
			if err := s.SendChat(text); err != nil {
				pterm.Error.Println(err)
			}
		case actionPeers:
			if err := pterm.DefaultTable.WithHasHeader().WithData(peersTable(s.Peers(), s.Self())).Render(); err != nil {
				return err
			}
		case actionHistory:
			if err := pterm.DefaultTable.WithHasHeader().WithData(historyTable(s.History().Blocks())).Render(); err != nil {
				return err
			}
		case actionQuit:
			return nil
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
