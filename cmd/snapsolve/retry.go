package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ruixin/snapsolve/internal/chat"
	"github.com/ruixin/snapsolve/internal/history"
	"github.com/ruixin/snapsolve/internal/message"
)

var retryCmd = &cobra.Command{
	Use:   "retry <session>",
	Short: "Regenerate the latest answer of a saved session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		ctx := cmd.Context()

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
		sess, err := hist.Session(ctx, args[0])
		if err != nil {
			return err
		}
		if sess == nil {
			return fmt.Errorf("session %s not found", args[0])
		}
		if len(sess.Turns) == 0 {
			return fmt.Errorf("session %s is empty", args[0])
		}
		msgs, err := hist.Messages(ctx, sess)
		if err != nil {
			return err
		}

		var engine *chat.Engine
		engine, err = chat.NewEngine(cfg, nil, hist, sess, msgs)
		if err != nil {
			return err
		}

		var fresh *message.Message
		fresh, err = engine.RefreshChat(ctx, len(sess.Turns)-1)
		if err != nil {
			return err
		}
		fmt.Print(renderMarkdown(fresh.Content))
		return nil
	},
}
