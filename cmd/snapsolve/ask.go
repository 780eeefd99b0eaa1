package main

import (
	"context"
	"fmt"

	"github.com/ruixin/snapsolve/internal/chat"
	"github.com/ruixin/snapsolve/internal/config"
	"github.com/ruixin/snapsolve/internal/history"
	"github.com/ruixin/snapsolve/internal/imagecache"
	"github.com/ruixin/snapsolve/internal/imagehost"
	"github.com/ruixin/snapsolve/internal/message"
)

// runAsk drives one question through the engine: resolve the photo if any,
// append the user turn, solve it, and print the rendered answer.
func runAsk(ctx context.Context, question string) error {
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
	engine, err := resumeEngine(ctx, cfg, hist)
	if err != nil {
		return err
	}

	input := message.Input{Text: question}
	if imageFlag != "" {
		uploader := imagehost.NewUploader(imagecache.New(store, nil), cfg.ImageHost)
		imageURL, originalURI, err := uploader.Upload(ctx, imageFlag)
		if err != nil {
			return fmt.Errorf("failed to prepare image: %w", err)
		}
		input.ImageURI = imageURL
		input.OriginalURI = originalURI
	}

	if _, err := engine.CreateUserMessage(ctx, input); err != nil {
		return err
	}
	answer, err := engine.Chat(ctx, -1)
	if err != nil {
		return err
	}
	if _, err := engine.CreateAssistantMessage(ctx, answer); err != nil {
		return err
	}

	fmt.Print(renderMarkdown(answer))
	fmt.Println(mutedStyle.Render("saved as " + engine.Session().ID))
	return nil
}

// resumeEngine builds an engine over the session named by -s, or over a fresh
// one when the flag is empty.
func resumeEngine(ctx context.Context, cfg *config.Config, hist *history.Index) (*chat.Engine, error) {
	var (
		sess *message.Session
		msgs map[string]*message.Message
	)
	if sessionFlag != "" {
		var err error
		sess, err = hist.Session(ctx, sessionFlag)
		if err != nil {
			return nil, err
		}
		if sess == nil {
			return nil, fmt.Errorf("session %s not found", sessionFlag)
		}
		msgs, err = hist.Messages(ctx, sess)
		if err != nil {
			return nil, err
		}
	}
	return chat.NewEngine(cfg, nil, hist, sess, msgs)
}
