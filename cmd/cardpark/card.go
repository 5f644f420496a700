package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"cardpark/internal/card"
	"cardpark/internal/lifecycle"
)

func newCardCommand() *cobra.Command {
	var baseURL string
	cmd := &cobra.Command{
		Use:   "card [code]",
		Short: "Look up a code and render its card in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := ""
			if len(args) == 1 {
				code = lifecycle.NormalizeCode(args[0])
			} else {
				entered, err := promptForCode()
				if err != nil {
					return err
				}
				if entered == "" {
					return nil
				}
				code = entered
			}
			if !lifecycle.ValidCode(code) {
				return fmt.Errorf("%q is not a valid code: expected 5 letters or digits", code)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			state, err := fetchCodeState(ctx, baseURL, code)
			if err != nil {
				return err
			}

			switch state.Status {
			case lifecycle.StatusOccupied:
				fmt.Println(card.Render(state.Code, state.Profile, false))
			case lifecycle.StatusVacant:
				fmt.Println(card.Render(state.Code, nil, false))
			case lifecycle.StatusInvalid:
				return fmt.Errorf("code %s does not exist", code)
			default:
				return fmt.Errorf("lookup failed: %s", state.Message)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "base-url", "http://localhost:8080", "API base URL")
	return cmd
}

func promptForCode() (string, error) {
	final, err := tea.NewProgram(card.NewPromptModel()).Run()
	if err != nil {
		return "", fmt.Errorf("run prompt: %w", err)
	}
	m := final.(card.PromptModel)
	if m.Aborted {
		return "", nil
	}
	return m.Code, nil
}

func fetchCodeState(ctx context.Context, baseURL, code string) (*lifecycle.CodeState, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/v1/codes/"+code, nil)
	if err != nil {
		return nil, err
	}
	resp, err := (&http.Client{Timeout: 10 * time.Second}).Do(req)
	if err != nil {
		return nil, fmt.Errorf("reach %s: %w", baseURL, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Success bool                `json:"success"`
		Data    lifecycle.CodeState `json:"data"`
		Error   *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if envelope.Success {
		return &envelope.Data, nil
	}
	if envelope.Error != nil && envelope.Error.Code == "CODE_NOT_FOUND" {
		state := lifecycle.Invalid()
		return &state, nil
	}
	if envelope.Error != nil {
		state := lifecycle.TransientError(envelope.Error.Message)
		return &state, nil
	}
	return nil, fmt.Errorf("unexpected response status %d", resp.StatusCode)
}
