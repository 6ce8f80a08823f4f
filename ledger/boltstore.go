package ledger

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/bitfsorg/nftext-go/royalty"
)

var (
	bucketTokens   = []byte("tokens")
	bucketMetadata = []byte("token_metadata")
	bucketContract = []byte("contract")

	keyExtensionState = []byte("extension_state")
)

// BoltStore persists tokens, metadata and extension state in a bbolt
// database. Every mutation runs in a single bbolt transaction, so a failed
// call leaves nothing behind.
type BoltStore struct {
	db *bbolt.DB
}

// Compile-time interface checks.
var (
	_ TokenLedger   = (*BoltStore)(nil)
	_ MetadataStore = (*BoltStore)(nil)
	_ StateStore    = (*BoltStore)(nil)
)

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("ledger: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("ledger: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketTokens, bucketMetadata, bucketContract} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ledger: create buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

func getToken(tx *bbolt.Tx, id TokenID) (*Token, error) {
	data := tx.Bucket(bucketTokens).Get([]byte(id))
	if data == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchToken, id)
	}
	var tok Token
	if err := decodeGob(data, &tok); err != nil {
		return nil, fmt.Errorf("ledger: decode token %s: %w", id, err)
	}
	return &tok, nil
}

func putToken(tx *bbolt.Tx, tok *Token) error {
	data, err := encodeGob(tok)
	if err != nil {
		return fmt.Errorf("ledger: encode token %s: %w", tok.ID, err)
	}
	if err := tx.Bucket(bucketTokens).Put([]byte(tok.ID), data); err != nil {
		return fmt.Errorf("ledger: put token %s: %w", tok.ID, err)
	}
	return nil
}

// Mint creates a token owned by owner with optional metadata.
func (s *BoltStore) Mint(id TokenID, owner royalty.AccountID, md *TokenMetadata) error {
	if id == "" {
		return ErrInvalidTokenID
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketTokens).Get([]byte(id)) != nil {
			return fmt.Errorf("%w: %s", ErrTokenExists, id)
		}
		if err := putToken(tx, &Token{ID: id, Owner: owner}); err != nil {
			return err
		}
		if md == nil {
			return nil
		}
		return putMetadata(tx, id, *md)
	})
}

// Token returns the token record.
func (s *BoltStore) Token(id TokenID) (*Token, error) {
	var tok *Token
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		tok, err = getToken(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tok, nil
}

// OwnerOf returns the current owner of a token.
func (s *BoltStore) OwnerOf(id TokenID) (royalty.AccountID, error) {
	tok, err := s.Token(id)
	if err != nil {
		return "", err
	}
	return tok.Owner, nil
}

// Approve lets account transfer the token on the owner's behalf.
func (s *BoltStore) Approve(caller royalty.AccountID, id TokenID, account royalty.AccountID) (uint64, error) {
	var approvalID uint64
	err := s.db.Update(func(tx *bbolt.Tx) error {
		tok, err := getToken(tx, id)
		if err != nil {
			return err
		}
		approvalID, err = approve(tok, caller, account)
		if err != nil {
			return fmt.Errorf("%w: %s", err, id)
		}
		return putToken(tx, tok)
	})
	return approvalID, err
}

// Transfer moves a token from its owner to receiver on behalf of sender.
func (s *BoltStore) Transfer(sender, receiver royalty.AccountID, id TokenID, approvalID *uint64, memo string) (*TransferResult, error) {
	var res *TransferResult
	err := s.db.Update(func(tx *bbolt.Tx) error {
		tok, err := getToken(tx, id)
		if err != nil {
			return err
		}
		res, err = transfer(tok, sender, receiver, approvalID)
		if err != nil {
			return fmt.Errorf("%w: %s", err, id)
		}
		return putToken(tx, tok)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func putMetadata(tx *bbolt.Tx, id TokenID, md TokenMetadata) error {
	data, err := encodeGob(md)
	if err != nil {
		return fmt.Errorf("ledger: encode metadata %s: %w", id, err)
	}
	if err := tx.Bucket(bucketMetadata).Put([]byte(id), data); err != nil {
		return fmt.Errorf("ledger: put metadata %s: %w", id, err)
	}
	return nil
}

// Metadata returns the token's metadata, or nil if none was set.
func (s *BoltStore) Metadata(id TokenID) (*TokenMetadata, error) {
	var md *TokenMetadata
	err := s.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketTokens).Get([]byte(id)) == nil {
			return fmt.Errorf("%w: %s", ErrNoSuchToken, id)
		}
		data := tx.Bucket(bucketMetadata).Get([]byte(id))
		if data == nil {
			return nil
		}
		md = &TokenMetadata{}
		if err := decodeGob(data, md); err != nil {
			return fmt.Errorf("ledger: decode metadata %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return md, nil
}

// SetMetadata replaces the token's metadata.
func (s *BoltStore) SetMetadata(id TokenID, md TokenMetadata) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketTokens).Get([]byte(id)) == nil {
			return fmt.Errorf("%w: %s", ErrNoSuchToken, id)
		}
		return putMetadata(tx, id, md)
	})
}

// LoadState returns the saved state, or ErrStateNotFound.
func (s *BoltStore) LoadState() (ExtensionState, error) {
	var st ExtensionState
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketContract).Get(keyExtensionState)
		if data == nil {
			return ErrStateNotFound
		}
		if err := decodeGob(data, &st); err != nil {
			return fmt.Errorf("ledger: decode extension state: %w", err)
		}
		return nil
	})
	if err != nil {
		return ExtensionState{}, err
	}
	if st.Royalty == nil {
		st.Royalty = royalty.Schedule{}
	}
	return st, nil
}

// SaveState replaces the saved state.
func (s *BoltStore) SaveState(st ExtensionState) error {
	data, err := encodeGob(st)
	if err != nil {
		return fmt.Errorf("ledger: encode extension state: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketContract).Put(keyExtensionState, data); err != nil {
			return fmt.Errorf("ledger: put extension state: %w", err)
		}
		return nil
	})
}
