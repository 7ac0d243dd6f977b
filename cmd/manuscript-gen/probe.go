package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"manuscript-gen/internal/workflow/prompt"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Open a session and send one short prompt",
	RunE:  runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	fmt.Println(bold("manuscript-gen probe"))
	if cfg.Session.Credential == "" {
		fmt.Println(yellow("! no credential set, waiting for interactive login"))
	}

	start := time.Now()
	sess, client, err := openSession(ctx, cfg)
	if err != nil {
		fmt.Printf("%s session: %v\n", red("✗"), err)
		return err
	}
	defer func() { _ = sess.Close() }()
	fmt.Printf("%s session ready (%s) %s\n", green("✓"), sess.State, gray(time.Since(start).Round(time.Millisecond).String()))
	reportCredential(sess)

	text, err := prompt.NewRegistry().Render(ctx, prompt.PromptProbeV1, map[string]any{
		"reference": start.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	sent := time.Now()
	reply, err := client.SubmitPrompt(ctx, text)
	if err != nil {
		fmt.Printf("%s prompt: %v\n", red("✗"), err)
		return err
	}
	fmt.Printf("%s response received %s\n", green("✓"), gray(time.Since(sent).Round(time.Millisecond).String()))
	fmt.Printf("  %s\n", preview(reply, 200))
	return nil
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
