// Package query talks to the game server over the Source A2S protocol.
package query

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/rumblefrog/go-a2s"

	"github.com/nstatus/nstatus/internal/domain"
	"github.com/nstatus/nstatus/internal/logger"
	"github.com/nstatus/nstatus/internal/utils"
)

// conn is the part of *a2s.Client the querier uses.
type conn interface {
	QueryInfo() (*a2s.ServerInfo, error)
	QueryPlayer() (*a2s.PlayerInfo, error)
	Close() error
}

type dialFunc func(addr string, timeout time.Duration) (conn, error)

func dialA2S(addr string, timeout time.Duration) (conn, error) {
	return a2s.NewClient(addr, a2s.TimeoutOption(timeout))
}

// Client queries one Source server. A fresh UDP socket is used per query.
type Client struct {
	timeout time.Duration
	dial    dialFunc
	logger  logger.Logger
	now     func() time.Time
}

// NewClient returns a querier whose requests each wait at most timeout.
func NewClient(timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		timeout: timeout,
		dial:    dialA2S,
		logger:  log,
		now:     time.Now,
	}
}

type result struct {
	state *domain.ServerState
	err   error
}

// Query fetches the live status of host:port. The game type is fixed to
// domain.GameType. Failures are returned as *Error.
func (c *Client) Query(ctx context.Context, host string, port int) (*domain.ServerState, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	if err := ctx.Err(); err != nil {
		return nil, wrap(addr, err)
	}

	c.logger.Debug("querying server",
		logger.String("game", domain.GameType),
		logger.String("addr", addr))

	cl, err := c.dial(addr, c.timeout)
	if err != nil {
		return nil, wrap(addr, err)
	}
	defer utils.MustClose(cl, "a2s client", c.logger)

	// a2s calls are blocking with their own socket deadline; the context
	// only bounds how long we wait for them.
	done := make(chan result, 1)
	go func() {
		st, err := c.query(cl)
		done <- result{state: st, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, wrap(addr, ctx.Err())
	case r := <-done:
		if r.err != nil {
			return nil, wrap(addr, r.err)
		}
		return r.state, nil
	}
}

func (c *Client) query(cl conn) (*domain.ServerState, error) {
	start := c.now()
	info, err := cl.QueryInfo()
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, errEmptyInfo
	}
	rtt := c.now().Sub(start)

	st := &domain.ServerState{
		Name:          info.Name,
		Game:          info.Game,
		PlayersOnline: int(info.Players),
		MaxPlayers:    int(info.MaxPlayers),
		Ping:          rtt,
		Map:           info.Map,
	}

	// The player list is nice to have; the info reply already carries the count.
	players, err := cl.QueryPlayer()
	if err != nil || players == nil {
		c.logger.Debug("player list unavailable, using info count",
			logger.String("server", info.Name),
			logger.Error(err))
		return st, nil
	}

	st.PlayersOnline = len(players.Players)
	st.PlayerNames = make([]string, 0, len(players.Players))
	for _, p := range players.Players {
		if p == nil {
			continue
		}
		st.PlayerNames = append(st.PlayerNames, p.Name)
	}
	return st, nil
}
