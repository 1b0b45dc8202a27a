package server

import (
	"sync/atomic"
)

// Stats は接続処理の集計値のスナップショット
type Stats struct {
	Accepted     int64 `json:"accepted"`      // 受け付けた接続数
	Active       int64 `json:"active"`        // 処理中の接続数
	Served       int64 `json:"served"`        // 応答した接続数
	Unmatched    int64 `json:"unmatched"`     // ルートが一致しなかった接続数
	Failed       int64 `json:"failed"`        // 失敗した接続数
	Idle         int64 `json:"idle"`          // 何も送らずに閉じた接続数
	AcceptErrors int64 `json:"accept_errors"` // 受け付けエラー数
}

type counters struct {
	accepted     atomic.Int64
	active       atomic.Int64
	served       atomic.Int64
	unmatched    atomic.Int64
	failed       atomic.Int64
	idle         atomic.Int64
	acceptErrors atomic.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Accepted:     c.accepted.Load(),
		Active:       c.active.Load(),
		Served:       c.served.Load(),
		Unmatched:    c.unmatched.Load(),
		Failed:       c.failed.Load(),
		Idle:         c.idle.Load(),
		AcceptErrors: c.acceptErrors.Load(),
	}
}
