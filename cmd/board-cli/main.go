// Command board-cli lists and advances restaurant orders from a terminal.
//
//	board-cli [flags] list
//	board-cli [flags] advance <order-id>
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/joho/godotenv"

	"github.com/xenking/order-board/internal/backend"
	"github.com/xenking/order-board/internal/domain/order"
	"github.com/xenking/order-board/internal/notice"
	"github.com/xenking/order-board/internal/view"
)

type options struct {
	baseURL      string
	token        string
	timeout      time.Duration
	detailPrefix string
}

func main() {
	_ = godotenv.Load()

	var opts options
	flag.StringVar(&opts.baseURL, "backend-url", "", "ordering backend API root (or BOARD_BACKEND_BASE_URL env)")
	flag.StringVar(&opts.token, "token", "", "restaurant bearer token (or BOARD_BACKEND_TOKEN env)")
	flag.DurationVar(&opts.timeout, "timeout", 10*time.Second, "backend request timeout")
	flag.StringVar(&opts.detailPrefix, "detail-url-prefix", view.DefaultDetailPrefix, "prefix of order detail links")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] list | advance <order-id>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if opts.baseURL == "" {
		opts.baseURL = os.Getenv("BOARD_BACKEND_BASE_URL")
	}
	if opts.baseURL == "" {
		opts.baseURL = "http://127.0.0.1:8000/"
	}
	if opts.token == "" {
		opts.token = os.Getenv("BOARD_BACKEND_TOKEN")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, opts, flag.Args(), os.Stdout); err != nil {
		slog.Error("board-cli failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New("command is required: list or advance <order-id>")
	}

	client, err := backend.New(backend.Config{
		BaseURL: opts.baseURL,
		Token:   opts.token,
		Timeout: opts.timeout,
	})
	if err != nil {
		return errors.Wrap(err, "create backend client")
	}

	notices := notice.NewRecorder(10)
	svc, err := order.NewService(client, notices, order.ServiceConfig{})
	if err != nil {
		return errors.Wrap(err, "create order service")
	}

	switch cmd := args[0]; cmd {
	case "list":
		if len(args) != 1 {
			return errors.New("list takes no arguments")
		}
		if err := svc.Load(ctx); err != nil {
			return err
		}
	case "advance":
		if len(args) != 2 {
			return errors.New("advance requires exactly one order id")
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return errors.Wrapf(err, "parse order id %q", args[1])
		}
		if err := svc.Load(ctx); err != nil {
			return err
		}
		slog.Debug("advancing order", slog.Int64("order_id", id))
		if _, err := svc.Advance(ctx, id); err != nil {
			// The notice carries the message staff expect to see.
			_ = view.RenderText(out, view.NewPage(svc.State(), opts.detailPrefix, notices.Drain()))
			return errors.Wrapf(err, "advance order %d", id)
		}
	default:
		return errors.Errorf("unknown command %q", cmd)
	}

	return view.RenderText(out, view.NewPage(svc.State(), opts.detailPrefix, notices.Drain()))
}
