package appvol

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/jfreymuth/pulse/proto"
	"go.uber.org/zap"
)

const (
	// PA_VOLUME_NORM
	maxVolume = 0x10000

	clientName = "appvol"

	// <sink name>/<binary>%b<sink input index>, shaped like a windows instance identifier
	// so the same parser applies
	paIdentifierFormat = "%s/%s%%b%d"
)

var errNoProcessBinary = errors.New("sink input has no process binary")

type paSubsystem struct {
	logger *zap.SugaredLogger
}

type paBinding struct {
	logger *zap.SugaredLogger
	client *proto.Client
	conn   net.Conn
}

type paEndpoint struct {
	client    *proto.Client
	sinkIndex uint32
	sinkName  string
}

type paSessionManager struct {
	endpoint *paEndpoint
}

type paSessionEnumerator struct {
	client     *proto.Client
	sinkName   string
	sinkInputs []*proto.GetSinkInputInfoReply
}

type paSessionControl struct {
	client   *proto.Client
	sinkName string
	info     *proto.GetSinkInputInfoReply
}

type paSimpleVolume struct {
	client         *proto.Client
	sinkInputIndex uint32
	channels       byte
	levels         []uint32
}

// NewSubsystem returns the PulseAudio backend
func NewSubsystem(logger *zap.SugaredLogger) (Subsystem, error) {
	s := &paSubsystem{logger: logger.Named("pulse")}

	s.logger.Debug("Created PA subsystem instance")

	return s, nil
}

func (s *paSubsystem) Open() (Binding, error) {
	client, conn, err := proto.Connect("")
	if err != nil {
		s.logger.Warnw("Failed to connect to PulseAudio", "error", err)
		return nil, fmt.Errorf("connect to PulseAudio: %w", err)
	}

	if err := client.Request(&proto.SetClientName{
		Props: proto.PropList{
			"application.name": proto.PropListString(clientName),
		},
	}, &proto.SetClientNameReply{}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set client name: %w", err)
	}

	return &paBinding{logger: s.logger, client: client, conn: conn}, nil
}

func (b *paBinding) DefaultRenderEndpoint() (Endpoint, error) {
	reply := proto.GetSinkInfoReply{}

	if err := b.client.Request(&proto.GetSinkInfo{SinkIndex: proto.Undefined}, &reply); err != nil {
		return nil, fmt.Errorf("get default sink info: %w", err)
	}

	return &paEndpoint{client: b.client, sinkIndex: reply.SinkIndex, sinkName: reply.SinkName}, nil
}

func (b *paBinding) Release() {
	if err := b.conn.Close(); err != nil {
		b.logger.Debugw("Failed to close PulseAudio connection", "error", err)
	}
}

func (e *paEndpoint) SessionManager() (SessionManager, error) {
	return &paSessionManager{endpoint: e}, nil
}

func (e *paEndpoint) Release() {}

// Sessions takes a snapshot of the sink inputs playing on the default sink
func (m *paSessionManager) Sessions() (SessionEnumerator, error) {
	reply := proto.GetSinkInputInfoListReply{}

	if err := m.endpoint.client.Request(&proto.GetSinkInputInfoList{}, &reply); err != nil {
		return nil, fmt.Errorf("get sink input list: %w", err)
	}

	sinkInputs := []*proto.GetSinkInputInfoReply{}

	for _, info := range reply {
		if info.SinkIndex == m.endpoint.sinkIndex {
			sinkInputs = append(sinkInputs, info)
		}
	}

	return &paSessionEnumerator{
		client:     m.endpoint.client,
		sinkName:   m.endpoint.sinkName,
		sinkInputs: sinkInputs,
	}, nil
}

func (m *paSessionManager) Release() {}

func (se *paSessionEnumerator) Count() (int, error) {
	return len(se.sinkInputs), nil
}

func (se *paSessionEnumerator) Session(idx int) (SessionControl, error) {
	if idx < 0 || idx >= len(se.sinkInputs) {
		return nil, fmt.Errorf("sink input %d out of range (count %d)", idx, len(se.sinkInputs))
	}

	return &paSessionControl{client: se.client, sinkName: se.sinkName, info: se.sinkInputs[idx]}, nil
}

func (se *paSessionEnumerator) Release() {
	se.sinkInputs = nil
}

func (c *paSessionControl) InstanceIdentifier() (string, error) {
	binary, ok := c.info.Properties["application.process.binary"]
	if !ok {
		return "", fmt.Errorf("sink input %d: %w", c.info.SinkInputIndex, errNoProcessBinary)
	}

	return fmt.Sprintf(paIdentifierFormat, c.sinkName, binary.String(), c.info.SinkInputIndex), nil
}

func (c *paSessionControl) ProcessID() (uint32, error) {
	value, ok := c.info.Properties["application.process.id"]
	if !ok {
		return 0, fmt.Errorf("sink input %d has no process id", c.info.SinkInputIndex)
	}

	pid, err := strconv.ParseUint(value.String(), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parse sink input %d process id: %w", c.info.SinkInputIndex, err)
	}

	return uint32(pid), nil
}

func (c *paSessionControl) SimpleVolume() (SimpleVolume, error) {
	return &paSimpleVolume{
		client:         c.client,
		sinkInputIndex: c.info.SinkInputIndex,
		channels:       c.info.Channels,
		levels:         c.info.ChannelVolumes,
	}, nil
}

func (c *paSessionControl) Release() {}

// MasterVolume averages the channel volumes captured when the session list was taken
func (v *paSimpleVolume) MasterVolume() (float32, error) {
	if len(v.levels) == 0 {
		return 0, fmt.Errorf("sink input %d has no channel volumes", v.sinkInputIndex)
	}

	var total uint64
	for _, level := range v.levels {
		total += uint64(level)
	}

	return float32(total) / float32(len(v.levels)) / float32(maxVolume), nil
}

func (v *paSimpleVolume) SetMasterVolume(level float32) error {
	volumes := make([]uint32, v.channels)
	for i := range volumes {
		volumes[i] = uint32(level * maxVolume)
	}

	if err := v.client.Request(&proto.SetSinkInputVolume{
		SinkInputIndex: v.sinkInputIndex,
		ChannelVolumes: volumes,
	}, nil); err != nil {
		return fmt.Errorf("set sink input %d volume: %w", v.sinkInputIndex, err)
	}

	v.levels = volumes
	return nil
}

func (v *paSimpleVolume) Release() {}
