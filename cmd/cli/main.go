package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/cbodonnell/breedadventure/pkg/audio"
	"github.com/cbodonnell/breedadventure/pkg/challenges"
	"github.com/cbodonnell/breedadventure/pkg/config"
	"github.com/cbodonnell/breedadventure/pkg/game"
	"github.com/cbodonnell/breedadventure/pkg/game/types"
	"github.com/cbodonnell/breedadventure/pkg/images"
	"github.com/cbodonnell/breedadventure/pkg/log"
	"github.com/cbodonnell/breedadventure/pkg/repositories"
	"github.com/cbodonnell/breedadventure/pkg/version"
)

const help = `commands:
  1, 2      pick the left or right image
  t         use extra time
  s         use skip
  p, r      pause and resume
  n         start a new game
  q         quit`

// bell rings the terminal on cues that need the player's attention.
type bell struct {
	out io.Writer
}

func (b bell) Play(_ context.Context, cue audio.Cue) error {
	switch cue {
	case audio.CueIncorrect, audio.CueTimeout, audio.CueGameOver:
		_, err := fmt.Fprint(b.out, "\a")
		return err
	}
	return nil
}

func main() {
	logLevel := flag.String("log-level", "warn", "Log level")
	catalogPath := flag.String("catalog", "", "YAML breed catalog, the bundled one when empty")
	tuningPath := flag.String("tuning", "", "YAML tuning overrides")
	appName := flag.String("save-as", "", "gdata app name for the high score, in memory when empty")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}
	log.SetDefaultLogger(log.New(os.Stderr, "", log.DefaultLoggerFlag, parsedLogLevel))
	log.Info("Starting breed adventure cli version %s", version.Get())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var catalog *challenges.Catalog
	if *catalogPath != "" {
		catalog, err = challenges.LoadCatalog(*catalogPath, nil)
	} else {
		catalog, err = challenges.DefaultCatalog(nil)
	}
	if err != nil {
		panic(fmt.Sprintf("Failed to load catalog: %v", err))
	}
	tuning, err := config.LoadTuning(*tuningPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load tuning: %v", err))
	}

	var scores repositories.HighScoreRepository = repositories.NewInMemoryRepository()
	if *appName != "" {
		scores, err = repositories.NewGDataRepository(*appName)
		if err != nil {
			panic(fmt.Sprintf("Failed to open save data: %v", err))
		}
	}
	defer scores.Close(context.Background())

	imageCache, err := images.NewCache(images.NewCacheOptions{
		Fetcher: images.NewHTTPFetcher(10 * time.Second),
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create image cache: %v", err))
	}

	loop := game.NewLoop(game.DefaultLoopInterval)
	go loop.Run(ctx)

	screen := &screen{out: os.Stdout}
	session, err := game.NewSession(game.NewSessionOptions{
		Context:   ctx,
		Generator: catalog,
		Images:    imageCache,
		Scores:    scores,
		Audio:     bell{out: os.Stdout},
		Scheduler: loop,
		Tuning:    &tuning,
		Observers: []game.Observer{screen.render},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create session: %v", err))
	}

	fmt.Println(help)
	if err := loop.Do(ctx, func() error { return session.Initialize(ctx) }); err != nil {
		fmt.Printf("Failed to initialize: %v\n", err)
		return
	}
	if err := loop.Do(ctx, func() error { return session.StartGame(ctx) }); err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		return
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- strings.TrimSpace(scanner.Text())
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok || line == "q" {
				if err := loop.Do(ctx, func() error { return session.EndGame(ctx) }); err != nil {
					log.Debug("Failed to end game: %v", err)
				}
				return
			}
			if err := loop.Do(ctx, func() error { return handle(ctx, session, line) }); err != nil {
				fmt.Println(err)
			}
		}
	}
}

// handle runs on the loop goroutine.
func handle(ctx context.Context, session *game.Session, line string) error {
	switch line {
	case "":
		return nil
	case "t":
		return session.UsePowerUp(ctx, types.PowerUpExtraTime)
	case "s":
		return session.UsePowerUp(ctx, types.PowerUpSkip)
	case "p":
		session.PauseGame()
		return nil
	case "r":
		session.ResumeGame()
		return nil
	case "n":
		return session.StartGame(ctx)
	}
	choice, err := strconv.Atoi(line)
	if err != nil || choice < 1 || choice > 2 {
		return fmt.Errorf("unknown command %q\n%s", line, help)
	}
	return session.SelectImage(ctx, choice-1)
}

// screen prints the parts of each snapshot a player reacts to.
type screen struct {
	out  io.Writer
	last types.Snapshot
}

func (s *screen) render(snapshot types.Snapshot) {
	last := s.last
	s.last = snapshot

	if snapshot.Status != last.Status {
		fmt.Fprintf(s.out, "[%s]\n", snapshot.Status)
		if snapshot.Status == types.StatusEnded {
			fmt.Fprintf(s.out, "Final score %d (%d/%d correct), high score %d\n",
				snapshot.State.Score, snapshot.State.CorrectAnswers, snapshot.State.TotalQuestions, snapshot.HighScore)
			return
		}
	}
	if snapshot.Feedback != last.Feedback && snapshot.Feedback != types.FeedbackNone {
		fmt.Fprintf(s.out, "%s! score %d, streak %d, lives %d\n",
			snapshot.Feedback, snapshot.State.Score, snapshot.State.ConsecutiveCorrect, snapshot.LivesRemaining)
	}
	if snapshot.State.CurrentPhase != last.State.CurrentPhase && last.State.CurrentPhase != "" {
		fmt.Fprintf(s.out, "Phase up: %s\n", snapshot.State.CurrentPhase)
	}
	if snapshot.Resilience.IsInRecoveryMode && !last.Resilience.IsInRecoveryMode {
		fmt.Fprintln(s.out, "Images are failing to load, switching to recovery mode")
	}
	if snapshot.Challenge != nil && (last.Challenge == nil || *snapshot.Challenge != *last.Challenge) {
		left, right := snapshot.Challenge.CorrectImage, snapshot.Challenge.IncorrectImage
		if snapshot.Challenge.CorrectSlot == 1 {
			left, right = right, left
		}
		fmt.Fprintf(s.out, "Which one is a %s? (%ds, extra time %d, skip %d)\n  1) %s\n  2) %s\n",
			snapshot.Challenge.CorrectLabel, snapshot.State.TimeRemaining,
			snapshot.State.PowerUps[types.PowerUpExtraTime], snapshot.State.PowerUps[types.PowerUpSkip],
			left, right)
		return
	}
	if snapshot.Status == types.StatusActive && snapshot.State.TimeRemaining != last.State.TimeRemaining &&
		snapshot.State.TimeRemaining <= 3 && snapshot.State.TimeRemaining > 0 {
		fmt.Fprintf(s.out, "%d...\n", snapshot.State.TimeRemaining)
	}
}
