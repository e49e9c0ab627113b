package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/vennparty/backend/internal/game"
)

type ConnCtx struct {
	PlayerID string
	limiter  *rate.Limiter
}

// Server bridges socket connections to the single running game. Every
// state change is fanned out as a full snapshot so clients never have
// to patch partial updates.
type Server struct {
	Game *game.Game
	io   *socketio.Server
}

func New(g *game.Game) *Server {
	return &Server{Game: g}
}

// Mount attaches the Socket.IO server with handlers to the given Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)
	srv.io = io

	io.OnConnect("/", func(s socketio.Conn) error {
		// 10 actions/sec with a small burst keeps a misbehaving
		// client from spamming submissions or votes.
		s.SetContext(&ConnCtx{limiter: rate.NewLimiter(rate.Limit(10), 20)})
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	// game:join
	io.OnEvent("/", "game:join", func(s socketio.Conn, payload struct {
		ProfileID string `json:"profileId"`
		Name      string `json:"name"`
		Avatar    string `json:"avatar"`
		Color     string `json:"color"`
	}) map[string]any {
		if !srv.allow(s) {
			return srv.err(s, "rate_limited", "Slow down")
		}
		p, err := srv.Game.AddPlayer(payload.ProfileID, payload.Name, payload.Avatar, payload.Color)
		if err != nil {
			return srv.err(s, "bad_request", err.Error())
		}
		ctx := s.Context().(*ConnCtx)
		ctx.PlayerID = p.ID
		log.Info().Str("sid", s.ID()).Str("playerId", p.ID).Str("name", p.Name).Msg("game:join")
		srv.Broadcast()
		return map[string]any{"playerId": p.ID, "roomCode": srv.Game.RoomCode()}
	})

	// game:addBot
	io.OnEvent("/", "game:addBot", func(s socketio.Conn) map[string]any {
		if !srv.allow(s) {
			return srv.err(s, "rate_limited", "Slow down")
		}
		p, err := srv.Game.AddSimulatedPlayer()
		if err != nil {
			return srv.err(s, "bad_request", err.Error())
		}
		log.Info().Str("playerId", p.ID).Msg("game:addBot")
		srv.Broadcast()
		return map[string]any{"playerId": p.ID}
	})

	// game:leave
	io.OnEvent("/", "game:leave", func(s socketio.Conn, payload struct {
		PlayerID string `json:"playerId"`
	}) map[string]any {
		if err := srv.Game.RemovePlayer(payload.PlayerID); err != nil {
			return srv.err(s, "bad_request", err.Error())
		}
		srv.Broadcast()
		return map[string]any{"ok": true}
	})

	// game:setup
	io.OnEvent("/", "game:setup", func(s socketio.Conn) map[string]any {
		if err := srv.Game.OpenSetup(); err != nil {
			return srv.err(s, "bad_request", err.Error())
		}
		srv.Broadcast()
		return map[string]any{"ok": true}
	})

	// game:configure
	io.OnEvent("/", "game:configure", func(s socketio.Conn, payload struct {
		Settings game.Settings `json:"settings"`
	}) map[string]any {
		if err := srv.Game.ApplySettings(payload.Settings); err != nil {
			return srv.err(s, "bad_request", err.Error())
		}
		log.Info().Int("rounds", payload.Settings.MaxRounds).Int("timer", payload.Settings.MaxTimer).Msg("game:configure")
		srv.Broadcast()
		return map[string]any{"ok": true}
	})

	// game:start
	io.OnEvent("/", "game:start", func(s socketio.Conn) map[string]any {
		if err := srv.Game.StartMatch(); err != nil {
			return srv.err(s, "bad_request", err.Error())
		}
		log.Info().Str("code", srv.Game.RoomCode()).Msg("game:start")
		srv.Broadcast()
		return map[string]any{"ok": true}
	})

	// game:submit
	io.OnEvent("/", "game:submit", func(s socketio.Conn, payload struct {
		Content string `json:"content"`
		Kind    string `json:"type"`
	}) map[string]any {
		if !srv.allow(s) {
			return srv.err(s, "rate_limited", "Slow down")
		}
		ctx := s.Context().(*ConnCtx)
		if ctx.PlayerID == "" {
			return srv.err(s, "unauthorized", "Join first")
		}
		kind := game.SubmissionKind(payload.Kind)
		if kind == "" {
			kind = game.SubmissionText
		}
		if err := srv.Game.Submit(ctx.PlayerID, payload.Content, kind); err != nil {
			return srv.err(s, "bad_request", err.Error())
		}
		log.Info().Str("playerId", ctx.PlayerID).Msg("game:submit")
		srv.Broadcast()
		return map[string]any{"ok": true}
	})

	// game:vote
	io.OnEvent("/", "game:vote", func(s socketio.Conn, payload struct {
		TargetID string `json:"targetSubmissionId"`
	}) map[string]any {
		if !srv.allow(s) {
			return srv.err(s, "rate_limited", "Slow down")
		}
		ctx := s.Context().(*ConnCtx)
		if ctx.PlayerID == "" {
			return srv.err(s, "unauthorized", "Join first")
		}
		if err := srv.Game.CastVote(ctx.PlayerID, payload.TargetID); err != nil {
			return srv.err(s, "bad_request", err.Error())
		}
		log.Info().Str("playerId", ctx.PlayerID).Str("targetId", payload.TargetID).Msg("game:vote")
		srv.Broadcast()
		return map[string]any{"ok": true}
	})

	// game:finish
	io.OnEvent("/", "game:finish", func(s socketio.Conn) map[string]any {
		if err := srv.Game.FinishRound(); err != nil {
			return srv.err(s, "bad_request", err.Error())
		}
		srv.Broadcast()
		return map[string]any{"ok": true}
	})

	// game:next
	io.OnEvent("/", "game:next", func(s socketio.Conn) map[string]any {
		if err := srv.Game.AdvanceRound(); err != nil {
			return srv.err(s, "bad_request", err.Error())
		}
		srv.Broadcast()
		return map[string]any{"ok": true}
	})

	// game:reset
	io.OnEvent("/", "game:reset", func(s socketio.Conn) map[string]any {
		srv.Game.ResetMatch()
		log.Info().Str("code", srv.Game.RoomCode()).Msg("game:reset")
		srv.Broadcast()
		return map[string]any{"ok": true}
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})
	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go io.Serve()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))

	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	})

	return io
}

// Broadcast pushes the current snapshot to every connected client.
func (srv *Server) Broadcast() {
	if srv.io == nil {
		return
	}
	srv.io.BroadcastToNamespace("/", "game:state", srv.Game.Snapshot())
}

func (srv *Server) allow(s socketio.Conn) bool {
	ctx, ok := s.Context().(*ConnCtx)
	return ok && ctx.limiter.Allow()
}

func (srv *Server) err(s socketio.Conn, code, message string) map[string]any {
	s.Emit("error", map[string]any{"code": code, "message": message})
	return map[string]any{"error": message}
}
