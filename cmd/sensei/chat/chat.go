// Package chatcmder provides the chat command for interactive coding-assist
// sessions against a running sensei API server.
package chatcmder

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/quillardco/sensei/pkg/assist"
	"github.com/quillardco/sensei/pkg/cliui"
	"github.com/quillardco/sensei/pkg/config"
	"github.com/quillardco/sensei/pkg/llm"
	"github.com/quillardco/sensei/pkg/utils"
)

var (
	userPrompt      = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	assistantPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("sensei> ")
	sectionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("117")).Bold(true)
)

type chatCommander struct {
	apiTarget string
	userID    string
	sessionID string

	httpClient *http.Client
}

const chatLongDesc string = `Start an interactive coding-assist session.

Each message is sent to a running sensei API server, which carries the
recent turns of this session as model context. Structured solutions are
rendered field by field; plain answers are printed as-is.

Examples:
  sensei chat
  sensei chat --api-target http://localhost:8080 --user alice`

const chatShortDesc string = "Interactive coding-assist chat"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfger, err := config.NewConfiger(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cfg, err := cfger.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if !cmd.Flags().Changed("api-target") {
				cmder.apiTarget = cfg.Client.APITarget
			}
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmder.run()
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVarP(&cmder.apiTarget, "api-target", "a", defaults.Client.APITarget, "Sensei API server URL")
	cmd.Flags().StringVarP(&cmder.userID, "user", "u", "", "User identifier (default: current OS user)")

	return cmd
}

func (c *chatCommander) run() error {
	c.httpClient = &http.Client{Timeout: 5 * time.Minute}
	c.sessionID = uuid.NewString()

	if c.userID == "" {
		c.userID = osUser()
	}

	fmt.Println()
	fmt.Printf("  %s New session %s\n",
		cliui.DimStyle.Render("●"),
		cliui.DimStyle.Render(c.sessionID),
	)
	fmt.Printf("  %s %s\n\n",
		cliui.KeyStyle.Render("Server:"),
		cliui.NameStyle.Render(c.apiTarget),
	)
	fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /exit or Ctrl+D to quit."))

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print(userPrompt)
		if !scanner.Scan() {
			// EOF or error
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" {
			break
		}

		started := time.Now()
		envelope, err := c.send(input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s %v\n", cliui.FailMark, err)
			continue
		}

		render(envelope)
		fmt.Printf("  %s\n\n", cliui.DimStyle.Render(cliui.FormatDuration(time.Since(started))))
	}

	fmt.Println()
	return scanner.Err()
}

// send posts one assist request and decodes the envelope.
func (c *chatCommander) send(input string) (assist.Envelope, error) {
	payload, err := json.Marshal(assist.Request{
		UserID:    c.userID,
		SessionID: c.sessionID,
		Input:     input,
	})
	if err != nil {
		return assist.Envelope{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.apiTarget+"/v1/assist", bytes.NewReader(payload))
	if err != nil {
		return assist.Envelope{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "sensei-chat/"+utils.Version)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return assist.Envelope{}, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return assist.Envelope{}, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp llm.ErrorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			if len(errResp.Fields) > 0 {
				return assist.Envelope{}, fmt.Errorf("%s (%s)", errResp.Error, strings.Join(errResp.Fields, ", "))
			}
			return assist.Envelope{}, fmt.Errorf("%s", errResp.Error)
		}
		return assist.Envelope{}, fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	var envelope assist.Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return assist.Envelope{}, fmt.Errorf("decoding envelope: %w", err)
	}

	return envelope, nil
}

func render(envelope assist.Envelope) {
	fmt.Println()

	if envelope.Type == assist.TypePlainAnswer || envelope.Solution == nil {
		fmt.Printf("%s%s\n\n", assistantPrompt, envelope.Text)
		return
	}

	solution := envelope.Solution
	section("Problem", solution.ProblemStatement)
	section("Approach", solution.Approach)
	section("Code", solution.CodeSnippet)
	section("Time complexity", solution.TimeComplexity)
	section("Space complexity", solution.SpaceComplexity)
	section("Dry run", solution.DryRun)

	fmt.Printf("  %s\n", sectionStyle.Render("Test cases"))
	for i, testCase := range solution.TestCases {
		fmt.Printf("    %d. %s → %s\n", i+1,
			cliui.ValueStyle.Render(testCase.Input),
			cliui.ValueStyle.Render(testCase.Output),
		)
	}
	fmt.Println()
}

func section(title, body string) {
	if body == "" {
		return
	}
	fmt.Printf("  %s\n", sectionStyle.Render(title))
	for _, line := range strings.Split(body, "\n") {
		fmt.Printf("    %s\n", line)
	}
}

func osUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "anonymous"
}
