package badgerfx

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap/zaptest"
)

type note struct {
	ID    string `json:"id"`
	Owner string `json:"owner"`
	Text  string `json:"text"`
}

func (n *note) StorageKey() string { return "note:id:" + n.ID }

func (n *note) StorageIndexes() []string {
	return []string{"note:owner:" + n.Owner + ":" + n.ID}
}

func (n *note) MarshalStorage() ([]byte, error) { return json.Marshal(n) }

func (n *note) UnmarshalStorage(data []byte) error { return json.Unmarshal(data, n) }

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()

	db, err := New(Config{InMemory: true}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func TestRepository_WriteReadReplaceDelete(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(func() *note { return new(note) })

	err := db.Update(func(txn *badger.Txn) error {
		if err := repo.Write(txn, &note{ID: "1", Owner: "alice", Text: "first"}); err != nil {
			return err
		}
		return repo.Write(txn, &note{ID: "2", Owner: "alice", Text: "second"})
	})
	if err != nil {
		t.Fatal(err)
	}

	err = db.View(func(txn *badger.Txn) error {
		byIndex, err := repo.ReadByIndex(txn, "note:owner:alice:2")
		if err != nil {
			return err
		}
		if byIndex.Text != "second" {
			t.Errorf("unexpected note: %+v", byIndex)
		}

		var texts []string
		if err := repo.ListByIndex(txn, "note:owner:alice:", badger.DefaultIteratorOptions, func(n *note) bool {
			texts = append(texts, n.Text)
			return true
		}); err != nil {
			return err
		}
		if len(texts) != 2 || texts[0] != "first" {
			t.Errorf("unexpected listing: %v", texts)
		}

		reverse := badger.DefaultIteratorOptions
		reverse.Reverse = true
		notes, err := repo.List(txn, "note:id:", reverse)
		if err != nil {
			return err
		}
		if len(notes) != 2 || notes[0].ID != "2" {
			t.Errorf("unexpected reverse listing: %+v", notes)
		}

		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	err = db.Update(func(txn *badger.Txn) error {
		old, err := repo.Read(txn, "note:id:1")
		if err != nil {
			return err
		}
		return repo.Replace(txn, old, &note{ID: "1", Owner: "bob", Text: "moved"})
	})
	if err != nil {
		t.Fatal(err)
	}

	err = db.Update(func(txn *badger.Txn) error {
		if ok, _ := repo.Exists(txn, "note:owner:alice:1"); ok {
			t.Errorf("stale index survived replace")
		}
		if ok, _ := repo.Exists(txn, "note:owner:bob:1"); !ok {
			t.Errorf("new index missing after replace")
		}

		if err := repo.Delete(txn, "note:id:2"); err != nil {
			return err
		}
		if _, err := repo.Read(txn, "note:id:2"); !errors.Is(err, badger.ErrKeyNotFound) {
			t.Errorf("expected ErrKeyNotFound, got %v", err)
		}
		if ok, _ := repo.Exists(txn, "note:owner:alice:2"); ok {
			t.Errorf("index survived delete")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}
