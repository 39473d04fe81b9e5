package email

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type ResetLink struct {
	Email string
	Link  string
}

const outboxKey string = "email_outbox"

// Outbox returns a handler listing the reset links stored while no SMTP server is configured.
func (s *Sender) Outbox() http.Handler {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		links, err := s.outbox(r.Context())
		if err != nil {
			s.sugar.Error(err)
			http.Error(w, "", http.StatusInternalServerError)
			return
		}

		var htmlString []byte
		if len(links) != 0 {
			htmlString = fmt.Append(htmlString, "<h1>Password reset links:</h1>")
			for _, link := range links {
				htmlString = fmt.Appendf(htmlString, `<p><a href="%s">%s</a></p>`, link.Link, link.Email)
			}
		} else {
			htmlString = fmt.Append(htmlString, "<h1>Outbox is empty</h1>\n")
		}

		_, err = w.Write(htmlString)
		if err != nil {
			s.sugar.Error(err)
		}
	})

	return r
}

// ServeOutbox blocks serving the outbox on address.
func (s *Sender) ServeOutbox(address string) error {
	s.sugar.Infof("View password reset links on http://%s/", address)
	return http.ListenAndServe(address, s.Outbox())
}

func (s *Sender) outbox(ctx context.Context) ([]ResetLink, error) {
	result, err := s.kv.Get(ctx, outboxKey)
	if err != nil {
		return nil, err
	}

	var links []ResetLink
	if result != "" {
		err = json.Unmarshal([]byte(result), &links)
		if err != nil {
			return nil, err
		}
	}
	return links, nil
}

func (s *Sender) storeManual(ctx context.Context, email string, link string) error {
	links, err := s.outbox(ctx)
	if err != nil {
		return err
	}

	links = append(links, ResetLink{email, link})

	jsonBytes, err := json.Marshal(links)
	if err != nil {
		return err
	}

	return s.kv.Set(ctx, outboxKey, string(jsonBytes), time.Hour*1)
}
