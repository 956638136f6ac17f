package main

import (
	"chat-relay/domain/event"
	"chat-relay/wire"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"github.com/olekukonko/tablewriter"
)

// Prints the relay history as a table without registering a name,
// so nobody sees a join or leave notice.
func main() {
	url := flag.String("url", "ws://localhost:3000", "Relay address")
	flag.Parse()

	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		log.Fatal("Error while dialing relay: ", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		log.Fatal(err)
	}
	frame, err := wire.DecodeServerFrame(raw)
	if err != nil {
		log.Fatal(err)
	}
	if frame.Type != event.HistoryType {
		log.Fatalf("expected %s first, got %s", event.HistoryType, frame.Type)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "Timestamp", "Type", "User", "Text"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for i, m := range frame.Messages {
		table.Append([]string{
			fmt.Sprint(i + 1),
			m.At().Format("2006-01-02 15:04:05"),
			string(m.Type),
			m.Username,
			m.Text,
		})
	}
	table.Render()

	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
