package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/ionbridge/stun"
)

var (
	flagAddr     string
	flagPort     string
	flagTimeout  time.Duration
	flagSoftware string
	flagHelp     bool
)

func init() {
	flag.StringVarP(&flagAddr, "addr", "a", "0.0.0.0", "Address to bind in server mode")
	flag.StringVarP(&flagPort, "port", "p", "3478", "Port to bind (server mode) or connect to (client mode) when url omits one")
	flag.DurationVarP(&flagTimeout, "timeout", "t", 0, "Server read timeout per datagram (0 disables)")
	flag.StringVarP(&flagSoftware, "software", "s", "", "SOFTWARE attribute to attach to client requests")
	flag.BoolVarP(&flagHelp, "help", "h", false, "Print usage information and exit")
}

const helpString = `A STUN (RFC 5389) client and server.

Usage: stun [--port N] [url]

A positional url selects client mode, sending a Binding request to that
server. Its absence selects server mode, listening on --addr:--port.

  -p, --port=PORT         Port to bind (server) or connect to, if url omits one (default: 3478)
  -a, --addr=ADDR         Address to bind in server mode (default: 0.0.0.0)
  -t, --timeout=DURATION  Server read timeout per datagram (default: disabled)
  -s, --software=TEXT     SOFTWARE attribute attached to client requests
  -h, --help              Print this message and exit`

func main() {
	flag.Parse()

	if flagHelp {
		fmt.Println(helpString)
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	logger := stun.NewDefaultLogger()

	if url := flag.Arg(0); url != "" {
		runClient(ctx, logger, url)
		return
	}
	runServer(ctx, logger)
}

func runServer(ctx context.Context, logger *stun.Logger) {
	server := stun.NewServer(stun.ServerConfig{
		Addr:    flagAddr,
		Port:    flagPort,
		Timeout: flagTimeout,
		Logger:  logger,
	})
	if err := server.Listen(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal(err.Error())
	}
}

func runClient(ctx context.Context, logger *stun.Logger, url string) {
	serverAddr := url
	if _, _, err := net.SplitHostPort(url); err != nil {
		serverAddr = net.JoinHostPort(url, flagPort)
	}

	client, err := stun.NewClientWithLogger(serverAddr, logger)
	if err != nil {
		logger.Fatal(err.Error())
	}
	defer client.Close()

	req := stun.NewRequest()
	req.SetType(stun.BindingRequest)
	if flagSoftware != "" {
		if err := req.AddSoftware(flagSoftware); err != nil {
			logger.Fatal(err.Error())
		}
	}

	resp, err := client.Dial(ctx, stun.DialOptions{Message: req})
	if err != nil {
		logger.Fatal(err.Error())
	}

	reflexive, err := client.ReflexiveAddr(resp)
	if err != nil {
		logger.Fatal(err.Error())
	}
	fmt.Println(reflexive.String())
}
