package main

import (
	"collab-hub/repositories"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
)

const maxBody = 80

func main() {
	dbPath := flag.String("db", "./data/badger", "Path to badger DB")
	limit := flag.Int("limit", 0, "Only the last N entries (0 for all)")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).WithReadOnly(true).WithLoggingLevel(badger.WARNING))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Sequence", "Sent at", "Author", "Lang", "Body"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	repository := repositories.NewChatRepository(db, slog.Default())
	count := 0
	appendRow := func(e repositories.DiskChatEntry) error {
		count++
		body := []rune(e.Body)
		if len(body) > maxBody {
			body = append(body[:maxBody], '…')
		}
		table.Append([]string{
			strconv.FormatUint(e.Sequence, 10),
			e.SentAt.Format(time.DateTime),
			e.Author,
			e.Lang,
			string(body),
		})
		return nil
	}

	if *limit > 0 {
		entries, err := repository.Recent(*limit)
		if err != nil {
			log.Fatal("Scan failed: ", err)
		}
		for _, e := range entries {
			_ = appendRow(e)
		}
	} else if err := repository.Scan(appendRow); err != nil {
		log.Fatal("Scan failed: ", err)
	}

	table.Render()
	fmt.Printf("\n%d entries\n", count)
}
