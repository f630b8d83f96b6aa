// Package ros reads recorded vehicle poses out of ROS bags.
package ros

import (
	"encoding/json"
	"io"
	"os"

	"github.com/edaniels/gobag/rosbag"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// DefaultPoseTopic is the motion capture topic the JetRacer pose is published on.
const DefaultPoseTopic = "vrpn_client_node/JaiAliJetRacer/pose"

// ReadBag reads the contents of a rosbag into a gobag data structure.
func ReadBag(filename string) (*rosbag.RosBag, error) {
	//nolint:gosec
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open input file")
	}
	defer utils.UncheckedErrorFunc(f.Close)

	rb := rosbag.NewRosBag()

	if err := rb.Read(f); err != nil {
		return nil, errors.Wrapf(err, "unable to create ros bag, error")
	}

	return rb, nil
}

// TimeRange limits parsing to messages recorded within [Start, End], in unix nanoseconds.
// A zero bound leaves that side open.
type TimeRange struct {
	Start int64
	End   int64
}

func (tr TimeRange) contains(timestamp int64) bool {
	if tr.Start != 0 && timestamp < tr.Start {
		return false
	}
	if tr.End != 0 && timestamp > tr.End {
		return false
	}
	return true
}

// AllMessagesForTopic returns all messages for a specific topic in the ros bag.
func AllMessagesForTopic(rb *rosbag.RosBag, topic string, tr TimeRange) ([]map[string]interface{}, error) {
	if err := rb.ParseTopicsToJSON(
		"",
		tr.contains,
		func(t string) bool { return t == topic },
		false,
	); err != nil {
		return nil, errors.Wrapf(err, "error while parsing bag to JSON")
	}

	msgs := rb.TopicsAsJSON[topic]
	if msgs == nil {
		return nil, errors.Errorf("no messages for topic %s", topic)
	}

	all := []map[string]interface{}{}

	for {
		data, err := msgs.ReadBytes('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		message := map[string]interface{}{}
		err = json.Unmarshal(data, &message)
		if err != nil {
			return nil, err
		}

		all = append(all, message)
	}

	return all, nil
}

// DecodePoseStamped converts one parsed bag message into a PoseStampedMessage.
func DecodePoseStamped(raw map[string]interface{}) (PoseStampedMessage, error) {
	var msg PoseStampedMessage
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "json", Result: &msg})
	if err != nil {
		return PoseStampedMessage{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return PoseStampedMessage{}, errors.Wrap(err, "message is not a geometry_msgs/PoseStamped")
	}
	return msg, nil
}

// PoseMessagesForTopic reads and decodes every PoseStamped message on topic.
func PoseMessagesForTopic(rb *rosbag.RosBag, topic string, tr TimeRange) ([]PoseStampedMessage, error) {
	raw, err := AllMessagesForTopic(rb, topic, tr)
	if err != nil {
		return nil, err
	}
	msgs := make([]PoseStampedMessage, 0, len(raw))
	for i, r := range raw {
		msg, err := DecodePoseStamped(r)
		if err != nil {
			return nil, errors.Wrapf(err, "message %d on %s", i, topic)
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}
