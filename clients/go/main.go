// Planify CLI - Command line client for the Planify conversation API
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Vishal25102002/planify/clients/go/planify"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	baseURL := os.Getenv("PLANIFY_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	client := planify.NewClient(baseURL)
	cmd := os.Args[1]

	switch cmd {
	case "health":
		resp, err := client.Health()
		exitOnError(err)
		printJSON(resp)

	case "new":
		conv, err := client.CreateConversation()
		exitOnError(err)
		fmt.Printf("Created conversation %d: %s\n", conv.ID, conv.Title)

	case "list":
		resp, err := client.ListConversations()
		exitOnError(err)
		for _, conv := range resp.Conversations {
			marker := " "
			if conv.Active {
				marker = "*"
			}
			fmt.Printf("%s %3d  %-35s (%d msgs)\n", marker, conv.ID, conv.Title, conv.MessageCount)
		}

	case "select":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: planify select <id>")
			os.Exit(1)
		}
		id, err := strconv.Atoi(os.Args[2])
		exitOnError(err)
		exitOnError(client.SelectConversation(id))
		fmt.Printf("Selected conversation %d\n", id)

	case "read":
		var conv *planify.Conversation
		var err error
		if len(os.Args) > 2 {
			var id int
			id, err = strconv.Atoi(os.Args[2])
			exitOnError(err)
			conv, err = client.GetConversation(id)
		} else {
			conv, err = client.ActiveConversation()
		}
		exitOnError(err)
		if conv == nil {
			fmt.Println("No active conversation")
			return
		}
		printConversation(conv)

	case "ask":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: planify ask <question>")
			os.Exit(1)
		}
		conv, err := client.AskAndWait(os.Args[2], 250*time.Millisecond, 2*time.Minute)
		exitOnError(err)
		if len(conv.Messages) > 0 {
			printMessage(conv.Messages[len(conv.Messages)-1])
		}

	case "help", "--help", "-h":
		usage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func printConversation(conv *planify.Conversation) {
	fmt.Printf("#%d %s\n", conv.ID, conv.Title)
	for _, msg := range conv.Messages {
		printMessage(msg)
	}
}

func printMessage(msg planify.Message) {
	from := "you"
	if msg.IsBot {
		from = "bot"
	}
	fmt.Printf("[%s] %s: %s\n", msg.Timestamp.Format("15:04:05"), from, msg.Text)
	for _, ref := range msg.References {
		fmt.Printf("        ref p.%d (%s): %s\n", ref.Page, ref.Score, ref.Content)
	}
}

func usage() {
	fmt.Println(`Planify CLI - Council assistant chat

Usage: planify <command> [options]

Commands:
  ask <question>   Send a question and wait for the answer
  new              Create a new conversation
  list             List conversations (newest first, * = active)
  select <id>      Switch the active conversation
  read [id]        Show a conversation (active one by default)
  health           Check server health

Environment:
  PLANIFY_URL   Server URL (default: http://localhost:8080)`)
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func printJSON(v interface{}) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(data))
}
