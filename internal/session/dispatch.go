package session

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"

	pnet "PlaceBoard/internal/net"
	"PlaceBoard/internal/state"
)

// ErrProtocol marks an inbound message the mirror cannot be updated from
// without corrupting it.
var ErrProtocol = errors.New("protocol error")

// Message routes one inbound message. A protocol error drops the connection
// so the server resends a full snapshot after the reconnect.
func (s *Session) Message(raw []byte) {
	err := s.dispatch(raw)
	switch {
	case err == nil:
	case errors.Is(err, ErrProtocol):
		log.Error().Err(err).Msg("dropping connection to resync")
		if s.conn != nil {
			s.conn.Drop()
		}
	default:
		log.Warn().Err(err).Msg("ignoring message")
	}
}

func (s *Session) dispatch(raw []byte) error {
	env, err := pnet.Decode(raw)
	if err != nil {
		return err
	}
	switch env.Type {
	case pnet.TypeFullUpdate:
		var fu pnet.FullUpdate
		if err := env.Payload(&fu); err != nil {
			return fmt.Errorf("%w: %v", ErrProtocol, err)
		}
		return s.fullUpdate(fu)
	case pnet.TypeRegions:
		var rs []pnet.Region
		if err := env.Payload(&rs); err != nil {
			return fmt.Errorf("%w: %v", ErrProtocol, err)
		}
		return s.regions(rs)
	case pnet.TypeChatMessage:
		var m pnet.ChatMessage
		if err := env.Payload(&m); err != nil {
			return err
		}
		s.chat(m)
	case pnet.TypeBroadcast:
		var b pnet.Broadcast
		if err := env.Payload(&b); err != nil {
			return err
		}
		if s.logChat {
			log.Info().Str("text", b.Text).Msg("broadcast")
		}
		s.overlays.AddBroadcast(b.Text)
		s.animate()
	case pnet.TypeAuth:
		var ok *bool
		if len(env.Data) > 0 {
			if err := env.Payload(&ok); err != nil {
				return err
			}
		}
		s.console.Auth(ok)
	case pnet.TypeConsole:
		var line string
		if err := env.Payload(&line); err != nil {
			return err
		}
		s.console.Line(line)
	case pnet.TypeError:
		var e pnet.ServerError
		if err := env.Payload(&e); err != nil {
			return err
		}
		log.Warn().Str("code", e.Code).Str("message", e.Message).Msg("server rejected request")
		s.console.Error(e)
	default:
		log.Warn().Str("type", env.Type).Msg("unknown message type")
	}
	return nil
}

func (s *Session) fullUpdate(fu pnet.FullUpdate) error {
	if err := s.mirror.ApplyFullSnapshot(fu.W, fu.H, fu.Data); err != nil {
		return fmt.Errorf("%w: full-update %dx%d: %v", ErrProtocol, fu.W, fu.H, err)
	}
	log.Debug().Int("w", fu.W).Int("h", fu.H).
		Str("bytes", humanize.Bytes(uint64(fu.W*fu.H*4))).Msg("full update")
	s.view.SetContent(s.mirror.Size())
	s.view.Clamp()
	s.sched.RequestRedraw()
	return nil
}

// regions decodes every entry before writing any, so a bad entry leaves the
// mirror untouched.
func (s *Session) regions(rs []pnet.Region) error {
	decoded := make([]state.Region, 0, len(rs))
	total := 0
	for i, r := range rs {
		d, err := state.DecodeRegion(r.X, r.Y, r.W, r.H, r.Data)
		if err != nil {
			return fmt.Errorf("%w: region %d: %v", ErrProtocol, i, err)
		}
		decoded = append(decoded, d)
		total += len(d.Pix)
	}
	if err := s.mirror.WriteRegions(decoded...); err != nil {
		return fmt.Errorf("%w: regions: %v", ErrProtocol, err)
	}
	log.Debug().Int("count", len(rs)).Str("bytes", humanize.Bytes(uint64(total))).Msg("regions")
	s.sched.RequestRedraw()
	return nil
}

func (s *Session) chat(m pnet.ChatMessage) {
	if s.logChat {
		ev := log.Info().Str("text", m.Text).Bool("admin", m.IsAdmin)
		if m.X != nil && m.Y != nil {
			ev = ev.Float64("x", *m.X).Float64("y", *m.Y)
		}
		if m.IDHue != nil {
			ev = ev.Float64("hue", *m.IDHue)
		}
		ev.Msg("chat")
	}
	in := state.BubbleInput{Text: m.Text, Hue: m.IDHue, Admin: m.IsAdmin}
	if m.X != nil && m.Y != nil {
		in.At = &state.Point{X: *m.X, Y: *m.Y}
	}
	s.overlays.AddChatBubble(in)
	s.animate()
}

// animate starts the continuous loop, which paints the first frame itself.
func (s *Session) animate() {
	s.sched.StartContinuous()
}
