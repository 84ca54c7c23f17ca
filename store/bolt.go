package store

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.etcd.io/bbolt"
)

const (
	VisitorIDCookie = "unleak_visitor_id"

	visitorBucket = "visitors"
)

// BoltBackend keeps visitor values server-side in a BoltDB file, keyed by a
// random visitor id cookie.
type BoltBackend struct {
	db     *bbolt.DB
	secure bool
}

// OpenBolt opens (or creates) the visitor database at path.
func OpenBolt(path string, secure bool) (*BoltBackend, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open visitor db: %w", err)
	}

	b := &BoltBackend{db: db, secure: secure}
	if err := b.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return b, nil
}

func (b *BoltBackend) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

func (b *BoltBackend) Load(c echo.Context) (Values, error) {
	id, ok := visitorID(c)
	if !ok {
		return Values{}, nil
	}

	values := Values{}
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(visitorBucket))
		if bucket == nil {
			return fmt.Errorf("visitor bucket is missing")
		}
		payload := bucket.Get([]byte(id))
		if payload == nil {
			return nil
		}
		if err := json.Unmarshal(payload, &values); err != nil {
			return fmt.Errorf("unmarshal visitor %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

func (b *BoltBackend) Save(c echo.Context, values Values) error {
	id, ok := visitorID(c)
	if !ok {
		id = uuid.NewString()
		c.SetCookie(&http.Cookie{
			Name:     VisitorIDCookie,
			Value:    id,
			Path:     "/",
			MaxAge:   int(cookieLifetime.Seconds()),
			HttpOnly: true,
			Secure:   b.secure,
			SameSite: http.SameSiteLaxMode,
		})
		// later saves in the same request must reuse the id
		c.Request().AddCookie(&http.Cookie{Name: VisitorIDCookie, Value: id})
	}

	payload, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshal visitor: %w", err)
	}

	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(visitorBucket))
		if bucket == nil {
			return fmt.Errorf("visitor bucket is missing")
		}
		return bucket.Put([]byte(id), payload)
	})
}

func (b *BoltBackend) ensureBuckets() error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(visitorBucket)); err != nil {
			return fmt.Errorf("create visitor bucket: %w", err)
		}
		return nil
	})
}

func visitorID(c echo.Context) (string, bool) {
	cookie, err := c.Cookie(VisitorIDCookie)
	if err != nil {
		return "", false
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return "", false
	}
	return id.String(), true
}
