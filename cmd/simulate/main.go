// Command simulate drives a conversation session from the terminal.
// With OPENAI_API_KEY set it reads utterances from stdin and lets the
// model pick handlers; without it, it replays a scripted booking.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/brightsmile-dental/voice-assistant/internal/assistant"
	"github.com/brightsmile-dental/voice-assistant/internal/clinic"
	appconfig "github.com/brightsmile-dental/voice-assistant/internal/config"
	"github.com/brightsmile-dental/voice-assistant/internal/flow"
	"github.com/brightsmile-dental/voice-assistant/internal/scheduling"
	"github.com/brightsmile-dental/voice-assistant/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := appconfig.Load()
	logger := logging.New("warn")
	info := clinic.NewInfo()

	ctx := context.Background()
	backend, err := scheduling.NewBackend(ctx, cfg, info, logger)
	if err != nil {
		log.Fatalf("scheduling backend: %v", err)
	}

	engine := flow.New("simulator", info, backend, flow.NewCatalog(info), logger)

	if cfg.OpenAIAPIKey != "" {
		runInteractive(ctx, engine, assistant.NewOpenAIDecider(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger))
		return
	}
	runScripted(ctx, engine)
}

func runInteractive(ctx context.Context, engine *flow.Engine, decider assistant.DecisionMaker) {
	printNode(engine.Current())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		utterance := strings.TrimSpace(scanner.Text())
		if utterance == "" {
			continue
		}

		decision, err := decider.Decide(ctx, engine.Current(), utterance)
		if errors.Is(err, assistant.ErrNoDecision) {
			if decision.Say != "" {
				fmt.Println(decision.Say)
			} else {
				fmt.Println("(nicio acțiune)")
			}
			continue
		}
		if err != nil {
			log.Fatalf("decide: %v", err)
		}

		node, err := engine.Invoke(ctx, decision.Handler, decision.Args)
		if err != nil {
			fmt.Printf("(handler %s respins: %v)\n", decision.Handler, err)
			continue
		}
		printNode(node)
		if engine.Closed() {
			return
		}
	}
}

func runScripted(ctx context.Context, engine *flow.Engine) {
	script := []assistant.Decision{
		{Handler: flow.HandlerScheduleAppointment},
		{Handler: flow.HandlerProvidePatientInfo, Args: flow.Args{
			"patient_name": "Ion Popescu", "phone_number": "0722123456",
		}},
		{Handler: flow.HandlerSelectService, Args: flow.Args{
			"service_type": "teeth_cleaning",
		}},
		{Handler: flow.HandlerSelectDateTime, Args: flow.Args{
			"preferred_date": "2026-09-02", "preferred_time": "11:00",
		}},
		{Handler: flow.HandlerConfirmAppointment},
		{Handler: flow.HandlerAppointmentComplete, Args: flow.Args{
			"needs_help": false,
		}},
		{Handler: flow.HandlerEndConversation},
	}
	decider := assistant.NewScripted(script...)

	printNode(engine.Current())
	for !engine.Closed() {
		decision, err := decider.Decide(ctx, engine.Current(), "")
		if errors.Is(err, assistant.ErrNoDecision) {
			return
		}
		if err != nil {
			log.Fatalf("decide: %v", err)
		}
		node, err := engine.Invoke(ctx, decision.Handler, decision.Args)
		if err != nil {
			log.Fatalf("invoke %s: %v", decision.Handler, err)
		}
		fmt.Printf("\n--- %s ---\n", decision.Handler)
		printNode(node)
	}
}

func printNode(node flow.Node) {
	fmt.Println(node.Content)
	if len(node.Bindings) == 0 {
		return
	}
	names := make([]string, 0, len(node.Bindings))
	for _, b := range node.Bindings {
		names = append(names, string(b.Name))
	}
	fmt.Printf("[%s]\n", strings.Join(names, ", "))
}
