package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ruixin/snapsolve/internal/history"
	"github.com/ruixin/snapsolve/internal/message"
)

var historyAllFlag bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved sessions, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runHistoryList(cmd.Context())
	},
}

func init() {
	historyCmd.Flags().BoolVar(&historyAllFlag, "all", false, "List every session, not just the newest batch")
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyClearCmd)
}

func runHistoryList(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	hist := history.NewIndex(store)
	cursor, total := 0, 0
	for {
		var sessions []*message.Session
		cursor, sessions, err = hist.LoadHistory(ctx, cursor)
		if err != nil {
			return err
		}
		for _, s := range sessions {
			ts := time.UnixMilli(s.Timestamp).Format("2006-01-02 15:04")
			fmt.Printf("%s  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-8s", s.ID)),
				mutedStyle.Render(ts),
				s.Title)
		}
		total += len(sessions)

		more, err := hist.HasMore(ctx, cursor)
		if err != nil {
			return err
		}
		if !more {
			break
		}
		if !historyAllFlag {
			fmt.Println(mutedStyle.Render("run with --all to list older sessions"))
			break
		}
	}
	if total == 0 {
		fmt.Println("No saved sessions.")
	}
	return nil
}

var historyShowCmd = &cobra.Command{
	Use:   "show <session>",
	Short: "Print a saved session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runHistoryShow(cmd.Context(), args[0])
	},
}

func runHistoryShow(ctx context.Context, key string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	hist := history.NewIndex(store)
	sess, err := hist.Session(ctx, key)
	if err != nil {
		return err
	}
	if sess == nil {
		return fmt.Errorf("session %s not found", key)
	}
	msgs, err := hist.Messages(ctx, sess)
	if err != nil {
		return err
	}
	current, err := message.Project(sess, msgs)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(sess.Title))
	fmt.Println()
	for _, m := range current {
		switch m.Role {
		case message.RoleUser:
			text := m.Content
			if text == "" {
				text = "[photo]"
			}
			fmt.Println(promptStyle.Render("❯ ") + text)
			if m.OriginalURI != "" {
				fmt.Println(mutedStyle.Render("  photo: " + m.OriginalURI))
			}
		default:
			fmt.Print(renderMarkdown(m.Content))
		}
		if t := sess.Turns[m.Turn]; len(t.IDs) > 1 {
			fmt.Println(mutedStyle.Render(fmt.Sprintf("  version %d of %d", t.Version+1, len(t.IDs))))
		}
	}
	return nil
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every saved session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, closeStore, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		if err := history.NewIndex(store).Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("History cleared.")
		return nil
	},
}
