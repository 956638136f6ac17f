// Command chatter is a terminal client for the relay.
// Every stdin line is sent as a chat message; "/find <query>" searches the
// local timeline and "/quit" leaves.
package main

import (
	"bufio"
	"chat-relay/domain"
	"chat-relay/domain/event"
	"chat-relay/projection"
	"chat-relay/wire"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/olekukonko/tablewriter"
)

var (
	systemStyle = color.New(color.FgGray, color.OpItalic)
	mineStyle   = color.New(color.FgCyan, color.OpBold)
	theirsStyle = color.New(color.FgGreen, color.OpBold)
	typingStyle = color.New(color.FgYellow)
)

func main() {
	url := flag.String("url", "ws://localhost:3000", "Relay address")
	name := flag.String("name", "", "Display name")
	flag.Parse()

	if err := run(*url, strings.TrimSpace(*name), os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

type chatter struct {
	mu       sync.Mutex
	out      io.Writer
	timeline *projection.Timeline
	conn     *websocket.Conn
}

func run(url, name string, in io.Reader, out io.Writer) error {
	if name == "" {
		return fmt.Errorf("a display name is required (-name)")
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("unable to reach %s: %w", url, err)
	}
	defer func() { _ = conn.Close() }()

	c := &chatter{out: out, timeline: projection.NewTimeline(name), conn: conn}
	if err = c.send(domain.RegisterCommand{Username: name}); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- c.listen() }()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case err = <-done:
			return err
		case line, ok := <-lines:
			if !ok {
				return c.leave()
			}
			if err = c.handle(line); err != nil {
				if err == io.EOF {
					return c.leave()
				}
				return err
			}
		}
	}
}

func (c *chatter) handle(line string) error {
	text := strings.TrimSpace(line)
	switch {
	case text == "":
		return nil
	case text == "/quit":
		return io.EOF
	case strings.HasPrefix(text, "/find "):
		c.mu.Lock()
		defer c.mu.Unlock()
		c.renderTable(c.timeline.Filter(strings.TrimPrefix(text, "/find ")))
		return nil
	default:
		return c.send(domain.PostMessageCommand{Text: text})
	}
}

func (c *chatter) send(cmd domain.Command) error {
	raw, err := wire.EncodeCommand(cmd)
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, raw)
}

func (c *chatter) leave() error {
	return c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// listen renders every frame until the relay closes the socket.
func (c *chatter) listen() error {
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("connection lost: %w", err)
		}
		frame, err := wire.DecodeServerFrame(raw)
		if err != nil {
			continue
		}
		c.mu.Lock()
		c.timeline.Consume(frame)
		c.render(frame)
		c.mu.Unlock()
	}
}

func (c *chatter) render(frame wire.ServerFrame) {
	switch frame.Type {
	case event.HistoryType:
		c.renderTable(c.timeline.Entries)
	case event.ChatType, event.SystemType:
		c.renderEntry(c.timeline.Entries[len(c.timeline.Entries)-1])
	case event.TypingType:
		if typing := c.timeline.Typing(); len(typing) > 0 {
			_, _ = fmt.Fprintln(c.out, typingStyle.Render(strings.Join(typing, ", ")+" is typing..."))
		}
	}
}

func (c *chatter) renderEntry(e domain.Entry) {
	at := e.At.Local().Format("15:04:05")
	switch {
	case e.Kind == domain.SystemEntry:
		_, _ = fmt.Fprintln(c.out, systemStyle.Render(at+" "+e.Text))
	case c.timeline.Mine(e):
		_, _ = fmt.Fprintf(c.out, "%s %s %s\n", at, mineStyle.Render(e.Username+":"), e.Text)
	default:
		_, _ = fmt.Fprintf(c.out, "%s %s %s\n", at, theirsStyle.Render(e.Username+":"), e.Text)
	}
}

func (c *chatter) renderTable(entries []domain.Entry) {
	table := tablewriter.NewWriter(c.out)
	table.SetHeader([]string{"Time", "Kind", "User", "Text"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for _, e := range entries {
		table.Append([]string{e.At.Local().Format("15:04:05"), string(e.Kind), e.Username, e.Text})
	}
	table.Render()
}
