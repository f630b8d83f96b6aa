package ros

import (
	"time"

	"github.com/golang/geo/r3"

	"github.com/jetracer/goalnav/spatialmath"
)

// Stamp is a ROS time value.
type Stamp struct {
	Secs  int64
	Nsecs int64
}

// Time converts the stamp to a time.Time.
func (s Stamp) Time() time.Time {
	return time.Unix(s.Secs, s.Nsecs)
}

// IsZero reports whether the stamp was never set.
func (s Stamp) IsZero() bool {
	return s.Secs == 0 && s.Nsecs == 0
}

// PoseStampedMessage is a geometry_msgs/PoseStamped as emitted by the bag JSON parser. Meta
// holds the time the message was recorded.
type PoseStampedMessage struct {
	Meta Stamp
	Data struct {
		Header struct {
			Seq     int
			Stamp   Stamp
			FrameID string `json:"frame_id"`
		}
		Pose struct {
			Position struct {
				X float64
				Y float64
				Z float64
			}
			Orientation struct {
				X float64
				Y float64
				Z float64
				W float64
			}
		}
	}
}

// Pose converts the message body to a spatialmath.Pose.
func (m *PoseStampedMessage) Pose() spatialmath.Pose {
	p := m.Data.Pose
	return spatialmath.NewPose(
		r3.Vector{X: p.Position.X, Y: p.Position.Y, Z: p.Position.Z},
		spatialmath.NewQuaternion(p.Orientation.X, p.Orientation.Y, p.Orientation.Z, p.Orientation.W),
	)
}

// Time returns when the pose was received: the record time, or the header stamp when the
// record time is missing.
func (m *PoseStampedMessage) Time() time.Time {
	if m.Meta.IsZero() {
		return m.Data.Header.Stamp.Time()
	}
	return m.Meta.Time()
}
