package main

import (
	"bufio"
	"collab-hub/gateway"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/tidwall/gjson"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	HubURL   string `env:"HUB_URL,default=ws://localhost:5000/ws"`
	Name     string `env:"HUB_NAME"`
	Token    string `env:"HUB_TOKEN"`
	FilePath string `env:"HUB_FILE"`
	LogLevel string `env:"LOG_LEVEL,default=INFO"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run joins the hub, prints what happens in the session and sends stdin lines as chat.
func run() (int, error) {
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	target, err := dialURL(config)
	if err != nil {
		return exitConfig, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		if resp != nil {
			return exitRuntime, fmt.Errorf("handshake refused with status %d: %w", resp.StatusCode, err)
		}
		return exitRuntime, fmt.Errorf("could not connect to %s: %w", config.HubURL, err)
	}
	defer func() {
		log.Info("Closing connection...")
		_ = conn.Close()
	}()

	if config.FilePath != "" {
		if err := conn.WriteJSON(gateway.NewSubscribeRequest(config.FilePath)); err != nil {
			return exitRuntime, err
		}
	}

	go func() {
		<-ctx.Done()
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
		_ = conn.Close()
	}()
	go sendLines(conn, config.Name)

	log.Info("Connected, type a line to chat (Ctrl+C to quit)", "url", config.HubURL)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return exitOK, nil
			}
			return exitRuntime, fmt.Errorf("connection lost: %w", err)
		}
		fmt.Println(render(data))
	}
}

func dialURL(config Config) (string, error) {
	u, err := url.Parse(config.HubURL)
	if err != nil {
		return "", fmt.Errorf("invalid HUB_URL: %w", err)
	}
	q := u.Query()
	if config.Name != "" {
		q.Set("name", config.Name)
	}
	if config.Token != "" {
		q.Set("token", config.Token)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func sendLines(conn *websocket.Conn, name string) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		msg, _ := json.Marshal(gateway.NewChatRequest(name, line))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

var (
	presenceStyle = color.New(color.FgCyan)
	authorStyle   = color.New(color.FgGreen, color.OpBold)
	documentStyle = color.New(color.FgYellow)
)

// render prints one server frame as a single human readable line.
func render(data []byte) string {
	switch gjson.GetBytes(data, "type").String() {
	case gateway.TypeWelcome:
		return presenceStyle.Render(fmt.Sprintf("* joined as %s", gjson.GetBytes(data, "user").String()))
	case gateway.TypeUserList:
		var users []string
		for _, u := range gjson.GetBytes(data, "users").Array() {
			users = append(users, u.String())
		}
		return presenceStyle.Render(fmt.Sprintf("* online: %s", strings.Join(users, ", ")))
	case gateway.TypeChatMessage:
		return fmt.Sprintf("[%d] %s: %s",
			gjson.GetBytes(data, "sequence").Uint(),
			authorStyle.Render(gjson.GetBytes(data, "user").String()),
			gjson.GetBytes(data, "message").String())
	case gateway.TypeCodeUpdate:
		return documentStyle.Render(fmt.Sprintf("* %s is now at version %d (%d bytes)",
			gjson.GetBytes(data, "file_path").String(),
			gjson.GetBytes(data, "version").Uint(),
			len(gjson.GetBytes(data, "code").String())))
	default:
		return string(data)
	}
}
