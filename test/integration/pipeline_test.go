//go:build integration

package integration

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/momentummm/screenguard/internal/domain"
	"github.com/momentummm/screenguard/internal/infra"
	"github.com/momentummm/screenguard/internal/service"
)

type recordingNavigator struct {
	mu    sync.Mutex
	calls int
}

func (n *recordingNavigator) NavigateBack(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	return nil
}

func (n *recordingNavigator) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls
}

type recordingOverlay struct {
	mu       sync.Mutex
	apps     []string
	features []string
}

func (o *recordingOverlay) ShowBlockOverlay(appName, featureName string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.apps = append(o.apps, appName)
	o.features = append(o.features, featureName)
	return nil
}

type fixedSource struct {
	events []domain.UiEvent
}

func (s *fixedSource) Events(ctx context.Context) (<-chan domain.UiEvent, error) {
	ch := make(chan domain.UiEvent, len(s.events))
	for _, ev := range s.events {
		ch <- ev
	}
	close(ch)
	return ch, nil
}

func reelsTree() *infra.SnapshotNode {
	return &infra.SnapshotNode{
		Nodes: []*infra.SnapshotNode{
			{ResourceID: "com.instagram.android:id/clips_video_container"},
		},
	}
}

var _ = Describe("Blocking pipeline", func() {
	var (
		store   *infra.SQLRuleStore
		nav     *recordingNavigator
		overlay *recordingOverlay
		svc     *service.Service
	)

	newService := func(throttle, cooldown time.Duration) *service.Service {
		return service.New(
			service.Config{
				OwnPackage: "com.momentummm.app",
				Throttle:   throttle,
				Cooldown:   cooldown,
			},
			store, nav, overlay,
			infra.NewProcessSessionTracker(),
			domain.SystemClock(),
			zap.NewNop(),
		)
	}

	BeforeEach(func() {
		key := make([]byte, 32)
		var err error
		store, err = infra.NewSQLRuleStore(GinkgoT().TempDir(), key)
		Expect(err).NotTo(HaveOccurred())
		nav = &recordingNavigator{}
		overlay = &recordingOverlay{}
	})

	AfterEach(func() {
		Expect(store.Close()).To(Succeed())
	})

	event := func(pkg string, root domain.UiNode) domain.UiEvent {
		return domain.UiEvent{
			Type:          domain.EventWindowContentChanged,
			SourcePackage: pkg,
			Timestamp:     time.Now(),
			Root:          root,
		}
	}

	Context("when the Reels tree arrives from Instagram", func() {
		It("fires the back action and the overlay once", func() {
			svc = newService(time.Nanosecond, time.Nanosecond)
			src := &fixedSource{events: []domain.UiEvent{
				event("com.instagram.android", reelsTree()),
			}}

			Expect(svc.Run(context.Background(), src)).To(Succeed())

			Expect(nav.count()).To(Equal(1))
			Expect(overlay.apps).To(Equal([]string{"Instagram"}))
			Expect(overlay.features).To(Equal([]string{"Reels"}))
		})
	})

	Context("when two matches land inside the cooldown window", func() {
		It("suppresses the second reaction", func() {
			svc = newService(time.Nanosecond, time.Hour)
			src := &fixedSource{events: []domain.UiEvent{
				event("com.instagram.android", reelsTree()),
				event("com.instagram.android", reelsTree()),
			}}

			Expect(svc.Run(context.Background(), src)).To(Succeed())

			Expect(nav.count()).To(Equal(1))
		})
	})

	Context("when the event comes from the host app itself", func() {
		It("never reaches the reactor", func() {
			svc = newService(time.Nanosecond, time.Nanosecond)
			src := &fixedSource{events: []domain.UiEvent{
				event("com.momentummm.app", reelsTree()),
			}}

			Expect(svc.Run(context.Background(), src)).To(Succeed())

			Expect(nav.count()).To(BeZero())
		})
	})

	Context("when the rule is disabled in the store", func() {
		It("produces no block", func() {
			Expect(store.SetEnabled(context.Background(), domain.RuleInstagramReels, false)).To(Succeed())

			svc = newService(time.Nanosecond, time.Nanosecond)
			src := &fixedSource{events: []domain.UiEvent{
				event("com.instagram.android", reelsTree()),
			}}

			Expect(svc.Run(context.Background(), src)).To(Succeed())

			Expect(nav.count()).To(BeZero())
		})
	})
})
