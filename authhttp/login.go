package authhttp

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/elnormous/contenttype"
	"github.com/google/uuid"

	"github.com/altbridge/persona/auth"
)

// AttemptHeader is the response header carrying the attempt ID that
// tags all log records for one authentication attempt.
const AttemptHeader = "X-Auth-Attempt"

// DefaultMaxBodyBytes caps the request body accepted by LoginHandler
// when LoginConfig.MaxBodyBytes is zero. Assertions are a few KiB;
// 1 MiB leaves generous headroom.
const DefaultMaxBodyBytes int64 = 1 << 20

// ErrNoStrategy is returned when LoginHandler is called without a
// strategy.
var ErrNoStrategy = errors.New("authhttp: strategy must not be nil")

var (
	formMediaType      = contenttype.NewMediaType("application/x-www-form-urlencoded")
	multipartMediaType = contenttype.NewMediaType("multipart/form-data")
	jsonMediaType      = contenttype.NewMediaType("application/json")
)

// LoginConfig configures a login endpoint. Every field is optional.
type LoginConfig struct {
	// OnSuccess responds to a successful attempt. This is where the
	// application establishes its session. The default responds 200
	// with {"ok":true}, plus an "email" field when the user value
	// implements interface{ Email() string }.
	OnSuccess func(w http.ResponseWriter, r *http.Request, user any, info auth.Info)

	// OnFail responds to a rejected attempt. The default responds with
	// info.Status (401 when zero) and {"error": info.Message}; a 401
	// carries a WWW-Authenticate challenge named after the strategy.
	OnFail func(w http.ResponseWriter, r *http.Request, info auth.Info)

	// OnError responds to an attempt that could not be decided. The
	// default responds 500 with a generic body; the cause is logged
	// and deliberately not echoed to the client.
	OnError func(w http.ResponseWriter, r *http.Request, err error)

	// MaxBodyBytes caps the request body. Zero means
	// DefaultMaxBodyBytes; a negative value disables the cap.
	MaxBodyBytes int64

	// Logger receives one record per attempt outcome. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// LoginHandler returns an http.Handler that authenticates POST requests
// with s and responds per the configured hooks. It accepts form,
// multipart, and JSON bodies; JSON object bodies are materialized into
// the request's PostForm so every strategy sees the same string-keyed
// mapping regardless of how the client encoded the credentials.
//
// It returns ErrNoStrategy when s is nil.
func LoginHandler(s auth.Strategy, cfg LoginConfig) (http.Handler, error) {
	if s == nil {
		return nil, ErrNoStrategy
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	maxBody := cfg.MaxBodyBytes
	if maxBody == 0 {
		maxBody = DefaultMaxBodyBytes
	}

	onSuccess := cfg.OnSuccess
	if onSuccess == nil {
		onSuccess = defaultOnSuccess
	}

	onFail := cfg.OnFail
	if onFail == nil {
		onFail = failResponder(s.Name())
	}

	onError := cfg.OnError
	if onError == nil {
		onError = defaultOnError
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			respondJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
			return
		}

		attempt := uuid.New().String()
		w.Header().Set(AttemptHeader, attempt)

		log := logger.With(
			slog.String("attempt", attempt),
			slog.String("strategy", s.Name()),
		)

		if maxBody > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxBody)
		}

		if status, msg := normalizeBody(r, maxBody); status != 0 {
			log.WarnContext(r.Context(), "login request rejected", slog.String("reason", msg))
			respondJSON(w, status, errorBody{Error: msg})
			return
		}

		// Once contains strategies that misbehave and report twice;
		// only the first outcome reaches the wire.
		s.Authenticate(r, auth.Once(auth.Callbacks{
			Success: func(user any, info auth.Info) {
				log.InfoContext(r.Context(), "authentication succeeded")
				onSuccess(w, r, user, info)
			},
			Fail: func(info auth.Info) {
				log.WarnContext(r.Context(), "authentication failed",
					slog.String("reason", info.Message))
				onFail(w, r, info)
			},
			Error: func(err error) {
				log.ErrorContext(r.Context(), "authentication error",
					slog.Any("error", err))
				onError(w, r, err)
			},
		}))
	}), nil
}

// normalizeBody parses the request body into the string-keyed form
// strategies read. Form and multipart bodies use the request's own
// parsing; JSON object bodies are decoded and their string values
// copied into PostForm. It returns a non-zero status and message when
// the request cannot be accepted as sent.
func normalizeBody(r *http.Request, maxMemory int64) (int, string) {
	ctype, err := contenttype.GetMediaType(r)
	if err != nil {
		return http.StatusUnsupportedMediaType, "unsupported content type"
	}

	// No Content-Type at all: pass through; a request without a body
	// fails in the strategy with its missing-credential outcome.
	if ctype.Type == "" {
		return 0, ""
	}

	switch {
	case ctype.Matches(formMediaType):
		if err := r.ParseForm(); err != nil {
			return bodyErrorStatus(err), "unreadable form body"
		}

	case ctype.Matches(multipartMediaType):
		mem := maxMemory
		if mem <= 0 {
			mem = DefaultMaxBodyBytes
		}
		if err := r.ParseMultipartForm(mem); err != nil {
			return bodyErrorStatus(err), "unreadable multipart body"
		}

	case ctype.Matches(jsonMediaType):
		var fields map[string]any
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			return bodyErrorStatus(err), "invalid JSON body"
		}

		form := url.Values{}
		for k, v := range fields {
			if s, ok := v.(string); ok {
				form.Set(k, s)
			}
		}
		r.PostForm = form

	default:
		return http.StatusUnsupportedMediaType, "unsupported content type " + ctype.String()
	}

	return 0, ""
}

// bodyErrorStatus distinguishes an oversized body from a malformed one.
func bodyErrorStatus(err error) int {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}

	return http.StatusBadRequest
}

func defaultOnSuccess(w http.ResponseWriter, _ *http.Request, user any, _ auth.Info) {
	body := map[string]any{"ok": true}
	if u, ok := user.(interface{ Email() string }); ok {
		body["email"] = u.Email()
	}

	respondJSON(w, http.StatusOK, body)
}

// failResponder builds the default Fail hook, challenging with the
// strategy's name on plain 401s per RFC 7235.
func failResponder(scheme string) func(http.ResponseWriter, *http.Request, auth.Info) {
	return func(w http.ResponseWriter, _ *http.Request, info auth.Info) {
		status := info.Status
		if status == 0 {
			status = http.StatusUnauthorized
		}

		message := info.Message
		if message == "" {
			message = http.StatusText(status)
		}

		if status == http.StatusUnauthorized {
			w.Header().Set("WWW-Authenticate", scheme)
		}

		respondJSON(w, status, errorBody{Error: message})
	}
}

func defaultOnError(w http.ResponseWriter, _ *http.Request, _ error) {
	respondJSON(w, http.StatusInternalServerError, errorBody{Error: "authentication error"})
}
