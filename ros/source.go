package ros

import (
	"context"
	"io"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"

	"github.com/jetracer/goalnav/spatialmath"
)

// BagPoseSource replays recorded poses in order. Before each pose is handed out the replay
// clock is moved to the pose's record time, so anything timing itself on that clock sees
// the recorded intervals.
type BagPoseSource struct {
	msgs   []PoseStampedMessage
	next   int
	replay *clock.Mock
	ticker *clock.Ticker
}

// NewBagPoseSource returns a source over msgs and sets replay to the first record time.
// Construct anything reading replay after calling this.
func NewBagPoseSource(msgs []PoseStampedMessage, replay *clock.Mock) (*BagPoseSource, error) {
	if len(msgs) == 0 {
		return nil, errors.New("no poses to replay")
	}
	replay.Set(msgs[0].Time())
	return &BagPoseSource{msgs: msgs, replay: replay}, nil
}

// Pace limits replay to hz poses per second of clk. Zero or negative hz replays as fast as
// possible.
func (s *BagPoseSource) Pace(clk clock.Clock, hz float64) {
	s.Close()
	if hz <= 0 {
		return
	}
	s.ticker = clk.Ticker(time.Duration(float64(time.Second) / hz))
}

// NextPose returns the next recorded pose, or io.EOF after the last one.
func (s *BagPoseSource) NextPose(ctx context.Context) (spatialmath.Pose, error) {
	if s.next >= len(s.msgs) {
		return spatialmath.Pose{}, io.EOF
	}
	if s.ticker != nil {
		select {
		case <-ctx.Done():
			return spatialmath.Pose{}, ctx.Err()
		case <-s.ticker.C:
		}
	}

	msg := &s.msgs[s.next]
	s.next++
	if at := msg.Time(); at.After(s.replay.Now()) {
		s.replay.Set(at)
	}
	return msg.Pose(), nil
}

// Remaining returns how many poses have not been replayed yet.
func (s *BagPoseSource) Remaining() int {
	return len(s.msgs) - s.next
}

// Close stops pacing.
func (s *BagPoseSource) Close() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
}
