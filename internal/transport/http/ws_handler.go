package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/SenQii/securejoin/internal/app"
	"github.com/SenQii/securejoin/internal/domain"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WSHandler exposes the join and create flows over a websocket so a browser
// client can drive them. Each connection gets its own flow instance; the
// attempt store is shared so bans survive reconnects.
type WSHandler struct {
	backend    app.Backend
	store      app.Store
	attemptCfg app.AttemptConfig
	sessionCfg app.SessionConfig
	upgrader   websocket.Upgrader
}

func NewWSHandler(backend app.Backend, store app.Store, attemptCfg app.AttemptConfig, sessionCfg app.SessionConfig) *WSHandler {
	return &WSHandler{
		backend:    backend,
		store:      store,
		attemptCfg: attemptCfg,
		sessionCfg: sessionCfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type verifyLinkPayload struct {
	Link string `json:"link"`
}

type submitAnswersPayload struct {
	Answers []string `json:"answers"`
}

type sendOTPPayload struct {
	Contact string `json:"contact"`
}

type verifyOTPPayload struct {
	Code    string `json:"code"`
	Contact string `json:"contact"`
}

type createLinkPayload struct {
	GroupURL  string                `json:"group_url"`
	Method    string                `json:"method"`
	Questions []domain.QuizQuestion `json:"questions"`
	OTPMethod string                `json:"otp_method"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type requirementsPayload struct {
	Methods   []string              `json:"methods"`
	Questions []domain.QuizQuestion `json:"questions,omitempty"`
	OTPMethod domain.OTPChannel     `json:"otp_method,omitempty"`
}

type toastPayload struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

type verifiedPayload struct {
	JoinLink string `json:"join_link"`
}

type linkCreatedPayload struct {
	Link string `json:"link"`
}

type attemptsPayload struct {
	Remaining int `json:"remaining"`
}

type bannedPayload struct {
	RemainingHours int `json:"remaining_hours"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// wsNotifier forwards flow notifications as toast messages over the socket.
// All writes happen on the connection's read loop goroutine.
type wsNotifier struct {
	conn *websocket.Conn
}

func (n *wsNotifier) Success(message string) {
	_ = n.conn.WriteJSON(outboundMessage[toastPayload]{Type: "toast", Payload: toastPayload{Level: "success", Message: message}})
}

func (n *wsNotifier) Error(message string) {
	_ = n.conn.WriteJSON(outboundMessage[toastPayload]{Type: "toast", Payload: toastPayload{Level: "error", Message: message}})
}

// ServeWS upgrades the request and drives one join flow per connection. The
// client identity comes from the clientId query param so a returning visitor
// keeps its attempt history; absent one, the connection gets a fresh identity.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("clientId")
	if clientID == "" {
		clientID = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	notifier := &wsNotifier{conn: conn}
	attempts := app.NewAttemptManager(h.store, notifier, h.attemptCfg, h.sessionCfg.Locale)
	session := app.NewVerificationSession(h.backend, notifier, h.sessionCfg)
	flow := app.NewJoinFlow(session, attempts, clientID)
	creator := app.NewLinkCreator(h.backend, notifier, h.sessionCfg.Locale)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}

		switch inbound.Type {
		case "verify_link":
			var payload verifyLinkPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.sendError(conn, "invalid verify_link payload")
				continue
			}
			if err := flow.VerifyLink(r.Context(), payload.Link); err != nil {
				h.reportFailure(conn, flow, attempts, clientID, err)
				continue
			}
			requirements := flow.Requirements()
			_ = conn.WriteJSON(outboundMessage[requirementsPayload]{Type: "requirements", Payload: requirementsPayload{
				Methods:   requirements.Methods,
				Questions: requirements.Questions,
				OTPMethod: requirements.OTPChannel,
			}})

		case "submit_answers":
			var payload submitAnswersPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.sendError(conn, "invalid submit_answers payload")
				continue
			}
			ok, err := flow.SubmitAnswers(r.Context(), payload.Answers)
			if !ok {
				h.reportFailure(conn, flow, attempts, clientID, err)
				continue
			}
			h.reportProgress(conn, flow)

		case "send_otp":
			var payload sendOTPPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.sendError(conn, "invalid send_otp payload")
				continue
			}
			if err := flow.SendOTP(r.Context(), payload.Contact); errors.Is(err, domain.ErrBanned) {
				h.reportFailure(conn, flow, attempts, clientID, err)
			}

		case "verify_otp":
			var payload verifyOTPPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.sendError(conn, "invalid verify_otp payload")
				continue
			}
			ok, err := flow.VerifyOTP(r.Context(), payload.Code, payload.Contact)
			if !ok {
				h.reportFailure(conn, flow, attempts, clientID, err)
				continue
			}
			h.reportProgress(conn, flow)

		case "create_link":
			var payload createLinkPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.sendError(conn, "invalid create_link payload")
				continue
			}
			method, ok := domain.ParseVerificationMethod(payload.Method)
			if !ok {
				h.sendError(conn, "unknown verification method")
				continue
			}
			link, err := creator.CreateSecureLink(r.Context(), domain.SecureLinkConfig{
				Method:     method,
				Questions:  payload.Questions,
				GroupURL:   payload.GroupURL,
				OTPChannel: domain.OTPChannel(payload.OTPMethod),
			})
			if err != nil {
				continue
			}
			_ = conn.WriteJSON(outboundMessage[linkCreatedPayload]{Type: "link_created", Payload: linkCreatedPayload{Link: link}})

		default:
			h.sendError(conn, "unsupported message type")
		}
	}
}

// reportProgress follows a successful verification step: either the flow is
// done and the destination can be revealed, or the other modality is still
// pending and the client gets its attempt budget back in view.
func (h *WSHandler) reportProgress(conn *websocket.Conn, flow *app.JoinFlow) {
	if flow.State() == app.StateJoined {
		link, err := flow.JoinLink()
		if err != nil {
			h.sendError(conn, err.Error())
			return
		}
		_ = conn.WriteJSON(outboundMessage[verifiedPayload]{Type: "verified", Payload: verifiedPayload{JoinLink: link}})
		return
	}
	_ = conn.WriteJSON(outboundMessage[attemptsPayload]{Type: "attempts", Payload: attemptsPayload{Remaining: flow.RemainingAttempts()}})
}

// reportFailure sends the ban state when the client is locked out, or the
// shrunken attempt budget otherwise. Toasts were already emitted by the flow.
func (h *WSHandler) reportFailure(conn *websocket.Conn, flow *app.JoinFlow, attempts *app.AttemptManager, clientID string, err error) {
	if errors.Is(err, domain.ErrBanned) {
		payload := bannedPayload{}
		if info := attempts.BanInfo(clientID); info != nil {
			payload.RemainingHours = info.RemainingHours
		}
		_ = conn.WriteJSON(outboundMessage[bannedPayload]{Type: "banned", Payload: payload})
		return
	}
	_ = conn.WriteJSON(outboundMessage[attemptsPayload]{Type: "attempts", Payload: attemptsPayload{Remaining: flow.RemainingAttempts()}})
}

func (h *WSHandler) sendError(conn *websocket.Conn, message string) {
	_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: message}})
}
