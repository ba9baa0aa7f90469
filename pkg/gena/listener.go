package gena

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/ssmb/ssmb-go/pkg/notify"
)

// maxNotifyBody bounds the size of a NOTIFY body.
const maxNotifyBody = 1 << 20

// ServeHTTP handles NOTIFY requests from the device.
func (n *Notifier) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != MethodNotify {
		w.Header().Set("Allow", MethodNotify)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.Header.Get("NT") != ntEvent || r.Header.Get("NTS") != ntsPropChange {
		http.Error(w, "bad NT or NTS", http.StatusBadRequest)
		return
	}

	sid := r.Header.Get("SID")
	sub := n.lookup(sid)
	if sub == nil {
		n.mu.Lock()
		n.unknown++
		n.mu.Unlock()
		n.logger.Debug("notify for unknown subscription", "sid", sid)
		http.Error(w, "unknown subscription", http.StatusPreconditionFailed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxNotifyBody))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}
	vars, err := DecodePropertySet(body)
	if err != nil {
		n.logger.Warn("undecodable event", "sid", sid, "error", err)
		http.Error(w, "bad propertyset", http.StatusBadRequest)
		return
	}

	seq, _ := strconv.ParseUint(r.Header.Get("SEQ"), 10, 32)
	ev := notify.Notification{
		SubscriptionID: sid,
		Seq:            uint32(seq),
		Variables:      vars,
		ReceivedAt:     time.Now(),
	}

	// The device only needs to know the event arrived.
	w.WriteHeader(http.StatusOK)

	if !sub.deliver(ev) {
		n.mu.Lock()
		n.dropped++
		n.mu.Unlock()
		n.logger.Warn("event dropped", "sid", sid, "seq", ev.Seq)
	}
}
