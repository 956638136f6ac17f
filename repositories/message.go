package repositories

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

var _ contract.IHistory = (*BadgerHistory)(nil)

const historyPrefix = "history:"

// OpenInMemory opens a Badger instance that lives only as long as the process.
func OpenInMemory() (*badger.DB, error) {
	return badger.Open(badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.WARNING))
}

// BadgerHistory stores entries in Badger, keyed by append sequence.
type BadgerHistory struct {
	mu  sync.Mutex
	db  *badger.DB
	log *slog.Logger
	seq uint64
}

func NewBadgerHistory(db *badger.DB, log *slog.Logger) *BadgerHistory {
	return &BadgerHistory{db: db, log: log}
}

// Append persists an entry.
// The key is formatted as "history:{seq_padded}" so that a prefix scan
// returns entries in append order (19-digit zero padding keeps the
// lexicographical order equal to the numerical one).
func (h *BadgerHistory) Append(entry domain.Entry) error {
	bytes, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	key := fmt.Sprintf("%s%019d", historyPrefix, h.seq)
	err = h.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
	if err != nil {
		return fmt.Errorf("history append failed: %w", err)
	}
	h.seq++
	return nil
}

// Snapshot scans the whole history prefix in order.
func (h *BadgerHistory) Snapshot() ([]domain.Entry, error) {
	entries := make([]domain.Entry, 0, h.Len())
	err := h.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(historyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var entry domain.Entry
				if err := json.Unmarshal(value, &entry); err != nil {
					return err
				}
				entries = append(entries, entry)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("history snapshot failed: %w", err)
	}
	h.log.Debug("History snapshot", "entries", len(entries))
	return entries, nil
}

func (h *BadgerHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return int(h.seq)
}
