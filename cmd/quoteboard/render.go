package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/quoteboard/internal/config"
	"github.com/vango-dev/quoteboard/pkg/component"
)

func renderCmd(dir *string) *cobra.Command {
	var (
		props []string
		wait  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "render <tag>",
		Short: "Render one widget to HTML",
		Long: `Mount a single widget against demo quotes and print its HTML.

Props are given as name=value and must be string props.

Examples:
  quoteboard render tool-tip --prop text=hello
  quoteboard render stock-price --prop symbol=AAPL --wait=100ms`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.OutOrStdout(), *dir, args[0], props, wait)
		},
	}

	cmd.Flags().StringArrayVarP(&props, "prop", "p", nil, "Set a prop (name=value)")
	cmd.Flags().DurationVar(&wait, "wait", 0, "Let async work settle before printing")

	return cmd
}

func runRender(w io.Writer, dir, tag string, props []string, wait time.Duration) error {
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	initial, err := parseProps(props)
	if err != nil {
		return err
	}

	a, err := newApp(cfg, cfg.NewLogger(os.Stderr), true)
	if err != nil {
		return err
	}
	h := a.newHost()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)
	defer h.Close()

	target := component.NewMemory()
	var c *component.Component
	var mountErr error
	if err := h.Call(func() {
		c, mountErr = h.Mount(tag, target, component.WithProps(initial))
	}); err != nil {
		return err
	}
	if mountErr != nil {
		return mountErr
	}

	if wait > 0 {
		time.Sleep(wait)
	}
	var html string
	if err := h.Call(func() { html = target.HTML(c) }); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, html)
	return err
}

func parseProps(pairs []string) (map[string]any, error) {
	props := make(map[string]any, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid prop %q, want name=value", p)
		}
		props[name] = value
	}
	return props, nil
}
