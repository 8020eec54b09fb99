package api

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"nomina/internal/render"
)

const (
	ticketTTL   = 10 * time.Minute
	ticketLimit = 16 // 同时有效的下载链接数，超出时最早的失效
)

// downloadTicket 指向用户目录中已生成的文件，文件本身不随凭据删除
type downloadTicket struct {
	path    string
	format  render.Format
	expires time.Time
}

// downloadTickets 一次性下载凭据，按签发顺序保存
type downloadTickets struct {
	mu    sync.Mutex
	ttl   time.Duration
	limit int
	now   func() time.Time
	order []string
	byID  map[string]downloadTicket
}

func newDownloadTickets(ttl time.Duration, limit int) *downloadTickets {
	return &downloadTickets{
		ttl:   ttl,
		limit: limit,
		now:   time.Now,
		byID:  make(map[string]downloadTicket),
	}
}

func (d *downloadTickets) issue(res render.Result) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := uuid.NewString()
	d.byID[id] = downloadTicket{path: res.Path, format: res.Format, expires: d.now().Add(d.ttl)}
	d.order = append(d.order, id)
	for len(d.order) > d.limit {
		delete(d.byID, d.order[0])
		d.order = d.order[1:]
	}
	return id
}

// redeem 凭据只能用一次；过期凭据同样被作废
func (d *downloadTickets) redeem(id string) (downloadTicket, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	t, ok := d.byID[id]
	if !ok {
		return downloadTicket{}, false
	}
	delete(d.byID, id)
	for i, v := range d.order {
		if v == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	if d.now().After(t.expires) {
		return downloadTicket{}, false
	}
	return t, true
}
