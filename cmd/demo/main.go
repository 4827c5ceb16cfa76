package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/iammanoj/interestlens/demo/feed"
	"github.com/iammanoj/interestlens/demo/tui"
)

func main() {
	// Load environment
	_ = godotenv.Load()

	engineURL := flag.String("url", "http://localhost:8080", "Engine URL")
	userID := flag.String("user", "demo-user", "User id (empty for anonymous)")
	feedKey := flag.String("feed", "hn", "Feed preset: hn, tr, verge, ars")
	maxItems := flag.Int("count", 12, "Max items to rank")
	flag.Parse()

	preset, ok := feed.FeedPresets[*feedKey]
	if !ok {
		fmt.Printf("Unknown feed preset %q\n", *feedKey)
		os.Exit(1)
	}

	m := tui.NewModel(*engineURL, *userID, preset.Name, preset.URL, *maxItems)
	program := tea.NewProgram(m)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
