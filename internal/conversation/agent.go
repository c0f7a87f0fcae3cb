package conversation

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

const (
	cliBanner = `============================================================
🤖 AI Appointment Booking Agent
============================================================

I'm your intelligent booking assistant. I can help you:
- Find the right specialist based on your symptoms
- Book appointments automatically
- Answer questions about doctors and availability

Type 'quit' or 'exit' to end the conversation.
`
	cliFarewell     = "Thank you for using our booking service. Take care!"
	cliAnotherQuery = "Would you like to book another appointment? (yes/no): "
)

// Agent drives a single conversation for the interactive CLI. It is not safe
// for concurrent use.
type Agent struct {
	engine  *Engine
	session *Session
}

func NewAgent(engine *Engine, sessionID string) *Agent {
	if engine == nil {
		panic("conversation: engine cannot be nil")
	}
	return &Agent{engine: engine, session: NewSession(sessionID, engine.now())}
}

// Respond processes one message.
func (a *Agent) Respond(ctx context.Context, message string) Response {
	return a.engine.Advance(ctx, a.session, message)
}

// QuickBook processes a one-shot booking request.
func (a *Agent) QuickBook(ctx context.Context, request string) Response {
	return a.engine.QuickBook(ctx, a.session, request)
}

// Session exposes the conversation state.
func (a *Agent) Session() *Session {
	return a.session
}

// Run reads messages line by line from in and writes replies to out until the
// user quits, declines another booking, the input ends or ctx is cancelled.
func (a *Agent) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, cliBanner)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(out, "\n👤 You: ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if isQuit(line) {
			fmt.Fprintf(out, "\n🤖 Agent: %s\n", cliFarewell)
			return nil
		}

		resp := a.Respond(ctx, line)
		fmt.Fprintf(out, "\n🤖 Agent: %s\n", resp.Message)

		if resp.NextStep != StepCompleted {
			continue
		}
		fmt.Fprint(out, "\n👤 "+cliAnotherQuery)
		if !scanner.Scan() {
			return scanner.Err()
		}
		if !isYes(scanner.Text()) {
			return nil
		}
	}
}

func isQuit(line string) bool {
	switch strings.ToLower(line) {
	case "quit", "exit", "bye":
		return true
	}
	return false
}

func isYes(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "yes", "y":
		return true
	}
	return false
}
