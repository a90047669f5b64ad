package appvol

import (
	"testing"

	"github.com/jfreymuth/pulse/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSinkName = "alsa_output.pci-0000_00_1f.3.analog-stereo"

func newTestSinkInput(props proto.PropList) *proto.GetSinkInputInfoReply {
	info := &proto.GetSinkInputInfoReply{
		SinkInputIndex: 42,
		SinkIndex:      1,
		ChannelVolumes: proto.ChannelVolumes{0x8000, 0x8000},
		Properties:     props,
	}
	info.Channels = 2

	return info
}

func TestPASessionIdentifierParsesToBinary(t *testing.T) {
	control := &paSessionControl{
		sinkName: testSinkName,
		info: newTestSinkInput(proto.PropList{
			"application.process.binary": proto.PropListString("firefox"),
		}),
	}

	identifier, err := control.InstanceIdentifier()
	require.NoError(t, err)

	assert.Equal(t, testSinkName+"/firefox%b42", identifier)
	assert.Equal(t, "firefox", ProgramNameFromIdentifier(identifier))
}

func TestPASessionIdentifierWithoutBinary(t *testing.T) {
	control := &paSessionControl{
		sinkName: testSinkName,
		info:     newTestSinkInput(proto.PropList{}),
	}

	_, err := control.InstanceIdentifier()
	assert.ErrorIs(t, err, errNoProcessBinary)
}

func TestPASessionProcessID(t *testing.T) {
	control := &paSessionControl{
		info: newTestSinkInput(proto.PropList{
			"application.process.id": proto.PropListString("4120"),
		}),
	}

	pid, err := control.ProcessID()
	require.NoError(t, err)
	assert.Equal(t, uint32(4120), pid)

	control.info = newTestSinkInput(proto.PropList{
		"application.process.id": proto.PropListString("not-a-pid"),
	})
	_, err = control.ProcessID()
	assert.Error(t, err)

	control.info = newTestSinkInput(proto.PropList{})
	_, err = control.ProcessID()
	assert.Error(t, err)
}

func TestPASimpleVolumeAveragesChannels(t *testing.T) {
	control := &paSessionControl{
		info: newTestSinkInput(proto.PropList{}),
	}
	control.info.ChannelVolumes = proto.ChannelVolumes{maxVolume, maxVolume / 2}

	volume, err := control.SimpleVolume()
	require.NoError(t, err)
	defer volume.Release()

	level, err := volume.MasterVolume()
	require.NoError(t, err)
	assert.InDelta(t, 0.75, level, 0.0001)
}

func TestPASimpleVolumeWithoutChannels(t *testing.T) {
	volume := &paSimpleVolume{sinkInputIndex: 42}

	_, err := volume.MasterVolume()
	assert.Error(t, err)
}
