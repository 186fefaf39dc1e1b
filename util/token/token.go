// Command token is an operator tool for minting and inspecting device
// tokens against the server's signing secret.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/scsmith60/messhall/internal/auth"
	"github.com/scsmith60/messhall/internal/model"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file loaded")
	}

	secret := os.Getenv("MESSHALL_JWT_SECRET")
	provider, err := auth.NewDeviceTokenProvider(secret, 30*24*time.Hour)
	if err != nil {
		fmt.Println("Error: MESSHALL_JWT_SECRET must be set")
		os.Exit(1)
	}

	// Define Lipgloss styles
	promptStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	outputStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	// Instructions for the user
	fmt.Println("Commands: 'mint <user-id>', 'inspect <token>', 'quit'.")

	// Set up scanner for reading input
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(promptStyle.Render("token> "))

		if !scanner.Scan() {
			break // Exit on EOF (e.g., Ctrl+D or Ctrl+Z)
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" {
			break
		}

		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "mint":
			if arg == "" {
				fmt.Println(errorStyle.Render("Usage: mint <user-id>"))
				continue
			}
			token, err := provider.Mint(model.UserID(arg))
			if err != nil {
				fmt.Println(errorStyle.Render("Error: " + err.Error()))
				continue
			}
			fmt.Println(outputStyle.Render("Token: " + token))

		case "inspect":
			if arg == "" {
				fmt.Println(errorStyle.Render("Usage: inspect <token>"))
				continue
			}
			userID, err := provider.Verify(arg)
			if err != nil {
				fmt.Println(errorStyle.Render("Invalid: " + err.Error()))
				continue
			}
			fmt.Println(outputStyle.Render("User: " + string(userID)))

		default:
			fmt.Println(errorStyle.Render("Unknown command: " + cmd))
		}
	}

	// Check for scanner errors
	if err := scanner.Err(); err != nil {
		fmt.Println("Error reading input:", err)
	}
}
