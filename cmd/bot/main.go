// Command bot is a terminal front end for the advisor service: it runs the
// digital maturity survey or forwards free-text questions.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	maturityx "github.com/digitaldept/business-advisor/advisor/maturity"
	"github.com/digitaldept/business-advisor/pkg/botapi"
	configx "github.com/digitaldept/business-advisor/pkg/config"
	logx "github.com/digitaldept/business-advisor/pkg/logger"
)

var allowedRatings = []string{"yes", "mostly_yes", "mostly_no", "no", "unknown"}

func main() {
	logCfg := configx.MustNew[logx.Config]("LOG")
	logx.Init(*logCfg)

	botCfg := configx.MustNew[botapi.Config]("ADVISOR")
	client := botapi.MustNewClient(*botCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reader := bufio.NewScanner(os.Stdin)
	fmt.Println("Digital consultant for business.")

	for {
		fmt.Println()
		fmt.Println("1) Run the digital maturity survey")
		fmt.Println("2) Ask a question")
		fmt.Println("q) Quit")
		fmt.Print("> ")

		choice, ok := readLine(reader)
		if !ok {
			return
		}
		switch strings.ToLower(choice) {
		case "1":
			runSurvey(ctx, client, reader)
		case "2":
			runQuestion(ctx, client, reader)
		case "q", "quit", "exit":
			return
		default:
			fmt.Println("Unknown choice.")
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

func runSurvey(ctx context.Context, client *botapi.Client, reader *bufio.Scanner) {
	fmt.Printf("Answer each item with one of: %s\n", strings.Join(allowedRatings, ", "))

	survey := make(map[string]string)
	for _, attribute := range maturityx.AttributeNames() {
		for {
			fmt.Printf("%s: ", strings.ReplaceAll(attribute, "_", " "))
			answer, ok := readLine(reader)
			if !ok {
				return
			}
			answer = strings.ToLower(strings.TrimSpace(answer))
			if isAllowedRating(answer) {
				survey[attribute] = answer
				break
			}
			fmt.Printf("Please answer with one of: %s\n", strings.Join(allowedRatings, ", "))
		}
	}

	result, err := client.DigitalMaturity(ctx, survey)
	if err != nil {
		fmt.Printf("Request failed: %v\n", err)
		return
	}
	fmt.Println()
	fmt.Println(result)
}

func runQuestion(ctx context.Context, client *botapi.Client, reader *bufio.Scanner) {
	fmt.Print("Your question: ")
	question, ok := readLine(reader)
	if !ok {
		return
	}
	if strings.TrimSpace(question) == "" {
		fmt.Println("The question cannot be empty.")
		return
	}

	result, err := client.AskQuestion(ctx, question)
	if err != nil {
		fmt.Printf("Request failed: %v\n", err)
		return
	}
	fmt.Println()
	fmt.Println(result)
}

func readLine(reader *bufio.Scanner) (string, bool) {
	if !reader.Scan() {
		return "", false
	}
	return strings.TrimSpace(reader.Text()), true
}

func isAllowedRating(answer string) bool {
	for _, r := range allowedRatings {
		if answer == r {
			return true
		}
	}
	return false
}
