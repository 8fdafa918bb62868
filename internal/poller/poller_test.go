// internal/poller/poller_test.go
package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tamzrod/modbus-od/internal/od"
)

type fakeClient struct {
	regs   map[uint16][]uint16
	failAt int // 1-based read number that fails; 0 = never
	reads  int
	unitID uint8
}

func (f *fakeClient) ReadRegisters(unitID uint8, addr, qty uint16) ([]uint16, error) {
	f.reads++
	f.unitID = unitID
	if f.failAt == f.reads {
		return nil, errors.New("fail read")
	}
	r, ok := f.regs[addr]
	if !ok || len(r) != int(qty) {
		return nil, errors.New("illegal data address")
	}
	return r, nil
}

func testDict(t *testing.T) *od.Dictionary {
	t.Helper()

	limits := od.MustRecord(od.UserConfig,
		od.FieldOf[int16](od.UserConfig, "min", 0, od.RangeOf[int16](-100, 100)),
		od.FieldOf[int16](od.UserConfig, "max", 2, od.RangeOf[int16](0, 500)),
	)

	d, err := od.NewDictionary(
		od.Item{Address: 0x2000, Mapping: 0, Object: od.NewObject("status", od.NewVariable[uint32](od.Status, od.Range{}), make([]byte, 4))},
		od.Item{Address: 0x2001, Mapping: 10, Object: od.NewObject("limits", limits, make([]byte, 4))},
	)
	if err != nil {
		t.Fatalf("NewDictionary err=%v", err)
	}
	return d
}

func newPoller(t *testing.T, d *od.Dictionary, c Client) *Poller {
	t.Helper()

	p, err := New(Config{
		UnitID:   7,
		Interval: time.Second,
		Objects:  []string{"Status", "limits"},
	}, d, c, &sync.Mutex{})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	return p
}

func TestNew_Targets(t *testing.T) {
	p := newPoller(t, testDict(t), &fakeClient{})

	got := p.Targets()
	want := []PullTarget{
		{Name: "status", Address: 0, Quantity: 2},
		{Name: "limits", Address: 10, Quantity: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("targets=%v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("target %d = %+v want %+v", i, got[i], want[i])
		}
	}
}

func TestNew_Errors(t *testing.T) {
	d := testDict(t)
	c := &fakeClient{}

	if _, err := New(Config{Interval: 0}, d, c, nil); err == nil {
		t.Fatalf("expected interval error")
	}
	if _, err := New(Config{Interval: time.Second, Objects: []string{"nope"}}, d, c, nil); err == nil {
		t.Fatalf("expected unknown object error")
	}
	if _, err := New(Config{Interval: time.Second}, nil, c, nil); err == nil {
		t.Fatalf("expected dictionary error")
	}
}

func TestPollOnce_Success(t *testing.T) {
	d := testDict(t)
	c := &fakeClient{regs: map[uint16][]uint16{
		0:  {0x0001, 0x0002},
		10: {uint16(0xFFCE), 250}, // -50, 250
	}}
	p := newPoller(t, d, c)

	res := p.PollOnce()
	if res.Err != nil {
		t.Fatalf("PollOnce err=%v", res.Err)
	}
	if len(res.Applied) != 2 || c.unitID != 7 {
		t.Fatalf("unexpected result %+v unit=%d", res, c.unitID)
	}

	buf := make([]byte, 4)
	d.Read(0x2000, 0, buf)
	if v := od.Decode[uint32](buf); v != 0x00010002 {
		t.Fatalf("status=%#x", v)
	}
	d.Read(0x2001, 1, buf)
	if v := od.Decode[int16](buf); v != -50 {
		t.Fatalf("limits.min=%d", v)
	}
}

func TestPollOnce_ReadFailureAppliesNothing(t *testing.T) {
	d := testDict(t)
	c := &fakeClient{
		regs:   map[uint16][]uint16{0: {0, 9}, 10: {1, 2}},
		failAt: 2,
	}
	p := newPoller(t, d, c)

	res := p.PollOnce()
	if res.Err == nil {
		t.Fatalf("expected error, got nil")
	}
	if len(res.Applied) != 0 {
		t.Fatalf("applied on failure: %v", res.Applied)
	}

	buf := make([]byte, 4)
	d.Read(0x2000, 0, buf)
	if v := od.Decode[uint32](buf); v != 0 {
		t.Fatalf("status changed on failed cycle: %d", v)
	}
}

func TestPollOnce_RejectedValueRollsBack(t *testing.T) {
	d := testDict(t)
	c := &fakeClient{regs: map[uint16][]uint16{
		0:  {0, 5},
		10: {20, 600}, // max out of range
	}}
	p := newPoller(t, d, c)

	res := p.PollOnce()
	if !errors.Is(res.Err, od.ValueTooHigh) {
		t.Fatalf("expected ValueTooHigh, got %v", res.Err)
	}

	buf := make([]byte, 4)
	d.Read(0x2000, 0, buf)
	if v := od.Decode[uint32](buf); v != 0 {
		t.Fatalf("status not rolled back: %d", v)
	}
	d.Read(0x2001, 1, buf)
	if v := od.Decode[int16](buf); v != 0 {
		t.Fatalf("limits.min not rolled back: %d", v)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	d := testDict(t)
	c := &fakeClient{regs: map[uint16][]uint16{0: {0, 1}, 10: {0, 0}}}

	p, err := New(Config{Interval: time.Millisecond, Objects: []string{"status"}}, d, c, nil)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan PollResult)
	done := make(chan struct{})
	go func() {
		p.Run(ctx, out)
		close(done)
	}()

	res := <-out
	if res.Err != nil {
		t.Fatalf("first cycle err=%v", res.Err)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop")
	}
}
