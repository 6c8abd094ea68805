package main

import (
	"flag"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"cherry-ai/application"
	"cherry-ai/infrastructure/chatclient"
	"cherry-ai/infrastructure/tui"
)

func main() {
	_ = godotenv.Load(".env.local")

	var serverURL, chatsPath string
	flag.StringVar(&serverURL, "server", "http://localhost:3000", "Base URL of the cherry-ai server")
	flag.StringVar(&chatsPath, "chats", "", "Path to the saved chats file (default ~/.config/cherry-ai/chats.json)")
	flag.Parse()

	if chatsPath == "" {
		p, err := application.DefaultThreadsPath()
		if err != nil {
			log.Fatalf("failed to resolve chats path: %v", err)
		}
		chatsPath = p
	}

	store, err := application.LoadThreadStore(chatsPath)
	if err != nil {
		log.Fatalf("failed to load chats: %v", err)
	}

	m := tui.New(chatclient.New(serverURL), store)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}
