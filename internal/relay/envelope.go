package relay

import (
	"bytes"
	"encoding/json"

	"devicerelay/internal/domain/entity"
	"devicerelay/internal/errors"

	"github.com/go-playground/validator/v10"
)

// MessageType is the "type" field of an envelope.
type MessageType string

const (
	TypeDeviceList      MessageType = "device_list"
	TypeDeviceOnline    MessageType = "device_online"
	TypeDeviceOffline   MessageType = "device_offline"
	TypeDeviceUpdate    MessageType = "device_update"
	TypeSendText        MessageType = "send_text"
	TypeSendFile        MessageType = "send_file"
	TypeRTCOffer        MessageType = "rtc_offer"
	TypeRTCAnswer       MessageType = "rtc_answer"
	TypeRTCIceCandidate MessageType = "rtc_ice_candidate"
	TypePing            MessageType = "ping"
	TypePong            MessageType = "pong"
)

const (
	fieldSenderID = "sender_id"
)

//nolint:gochecknoglobals
var validate = validator.New(validator.WithRequiredStructEnabled())

// Envelope is a frame written by the relay.
type Envelope struct {
	Type MessageType `json:"type"`
	Data any         `json:"data,omitempty"`
}

// OfflineNotice is the payload of a device_offline envelope.
type OfflineNotice struct {
	ID string `json:"id"`
}

type inboundEnvelope struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Message is one decoded inbound envelope. The concrete type determines how
// the router handles it.
type Message interface {
	Kind() MessageType
}

// Ping refreshes the sender's liveness marker.
type Ping struct{}

// DeviceListRequest asks for the identities of the other online devices.
type DeviceListRequest struct{}

// DeviceUpdate replaces the sender's display metadata.
type DeviceUpdate struct {
	Identity entity.DeviceIdentity
}

// SendText is a text message addressed to another device.
type SendText struct {
	ReceiverID string `json:"receiver_id" validate:"required"`
	Content    string `json:"content" validate:"required"`

	fields payloadFields
}

// SendFile announces file transfer progress to another device. The byte
// counters are pointers so an absent counter is rejected while zero is not.
// StorageKey is set once the file has been committed to storage.
type SendFile struct {
	ReceiverID      string `json:"receiver_id" validate:"required"`
	TotalByte       *int64 `json:"total_byte" validate:"required,gte=0"`
	TransferredByte *int64 `json:"transferred_byte" validate:"required,gte=0"`
	FileName        string `json:"file_name" validate:"required"`
	MimeType        string `json:"mime_type" validate:"required"`
	StorageKey      string `json:"storage_key"`

	fields payloadFields
}

// Forward is any other addressed payload, RTC signaling included. It is
// relayed as-is.
type Forward struct {
	Type       MessageType `json:"-"`
	ReceiverID string      `json:"receiver_id" validate:"required"`

	fields payloadFields
}

func (Ping) Kind() MessageType              { return TypePing }
func (DeviceListRequest) Kind() MessageType { return TypeDeviceList }
func (DeviceUpdate) Kind() MessageType      { return TypeDeviceUpdate }
func (SendText) Kind() MessageType          { return TypeSendText }
func (SendFile) Kind() MessageType          { return TypeSendFile }
func (m Forward) Kind() MessageType         { return m.Type }

// payloadFields keeps the raw object so forwarded payloads carry every field
// the sender supplied.
type payloadFields map[string]json.RawMessage

// withSender returns a copy with sender_id replaced by tag.
func (f payloadFields) withSender(tag string) payloadFields {
	out := make(payloadFields, len(f)+1)
	for k, v := range f {
		out[k] = v
	}
	raw, _ := json.Marshal(tag)
	out[fieldSenderID] = raw

	return out
}

// Decode parses an inbound frame into a typed Message, checking the required
// fields of its payload.
func Decode(frame []byte) (Message, error) {
	var env inboundEnvelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, errors.Wrap(ErrMalformedFrame, err.Error())
	}
	if env.Type == "" {
		return nil, errors.Wrap(ErrMalformedFrame, "missing type")
	}

	switch env.Type {
	case TypePing:
		return Ping{}, nil

	case TypeDeviceList:
		return DeviceListRequest{}, nil

	case TypeDeviceUpdate:
		var identity entity.DeviceIdentity
		if err := decodePayload(env.Data, &identity); err != nil {
			return nil, err
		}

		return DeviceUpdate{Identity: identity}, nil

	case TypeSendText:
		var msg SendText
		fields, err := decodeAddressed(env.Data, &msg)
		if err != nil {
			return nil, err
		}
		msg.fields = fields

		return msg, nil

	case TypeSendFile:
		var msg SendFile
		fields, err := decodeAddressed(env.Data, &msg)
		if err != nil {
			return nil, err
		}
		msg.fields = fields

		return msg, nil

	default:
		msg := Forward{Type: env.Type}
		fields, err := decodeAddressed(env.Data, &msg)
		if err != nil {
			return nil, err
		}
		msg.fields = fields

		return msg, nil
	}
}

// ValidateIdentity checks the required fields of a device identity.
func ValidateIdentity(identity entity.DeviceIdentity) error {
	if err := validate.Struct(identity); err != nil {
		return errors.Wrap(ErrInvalidIdentity, err.Error())
	}

	return nil
}

func decodePayload(data json.RawMessage, dst any) error {
	if len(data) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errors.Wrap(ErrMalformedFrame, "missing data")
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return errors.Wrap(ErrMalformedFrame, err.Error())
	}
	if err := validate.Struct(dst); err != nil {
		return errors.Wrap(ErrMalformedFrame, err.Error())
	}

	return nil
}

func decodeAddressed(data json.RawMessage, dst any) (payloadFields, error) {
	if err := decodePayload(data, dst); err != nil {
		return nil, err
	}

	var fields payloadFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, errors.Wrap(ErrMalformedFrame, err.Error())
	}

	return fields, nil
}
