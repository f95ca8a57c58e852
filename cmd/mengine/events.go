package main

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/urfave/cli/v2"
)

const eventStreamPath = "/v1/events"

var events = cli.Command{
	Name:  "events",
	Usage: "stream engine events until interrupted",
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "topic",
			Usage: "the topics to subscribe to, all if not set",
		},
	},
	Action: eventsAction,
}

func eventsAction(ctx *cli.Context) error {
	state, err := getState()
	if err != nil {
		return err
	}

	streamURL, dialer, err := eventStreamDialer(state, ctx.StringSlice("topic"))
	if err != nil {
		return err
	}

	conn, _, err := dialer.Dial(streamURL, nil)
	if err != nil {
		return fmt.Errorf("unable to connect to event stream: %w", err)
	}
	defer conn.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigChan
		_ = conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		)
		conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) ||
				errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		fmt.Println(string(msg))
	}
}

// eventStreamDialer returns the url of the event stream of the daemon in
// state and a dialer honoring its TLS settings.
func eventStreamDialer(
	state map[string]string, topics []string,
) (string, *websocket.Dialer, error) {
	address, ok := state["rpcserver"]
	if !ok {
		return "", nil, errors.New("set rpcserver with `config set rpcserver`")
	}

	dialer := &websocket.Dialer{}
	scheme := "wss"
	switch {
	case state["no_tls"] == "true":
		scheme = "ws"
	case state["tls_cert_path"] != "":
		cert, err := os.ReadFile(state["tls_cert_path"])
		if err != nil {
			return "", nil, fmt.Errorf("reading tls cert: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(cert) {
			return "", nil, fmt.Errorf("invalid tls cert")
		}
		dialer.TLSClientConfig = &tls.Config{RootCAs: pool}
	default:
		// #nosec
		dialer.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	query := url.Values{}
	for _, t := range topics {
		query.Add("topic", t)
	}
	u := url.URL{
		Scheme:   scheme,
		Host:     address,
		Path:     eventStreamPath,
		RawQuery: query.Encode(),
	}
	return u.String(), dialer, nil
}
