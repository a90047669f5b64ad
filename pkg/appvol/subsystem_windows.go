package appvol

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"syscall"
	"unsafe"

	ole "github.com/go-ole/go-ole"
	"github.com/google/uuid"
	wca "github.com/moutend/go-wca/pkg/wca"
	"go.uber.org/zap"
)

const (
	// CoInitializeEx returns S_FALSE when COM was already initialized on this thread.
	// the call still counts and needs its own CoUninitialize
	sFalse = 1

	// our event context GUID is derived from this name, so other audio consumers
	// always see the same context for changes we make
	eventContextName = "appvol.volume-setter"
)

type wcaSubsystem struct {
	logger   *zap.SugaredLogger
	eventCtx *ole.GUID
}

type wcaBinding struct {
	logger   *zap.SugaredLogger
	eventCtx *ole.GUID
}

// wcaEndpoint keeps the device enumerator it came from, so both go away together in reverse order
type wcaEndpoint struct {
	deviceEnumerator *wca.IMMDeviceEnumerator
	device           *wca.IMMDevice
	eventCtx         *ole.GUID
}

type wcaSessionManager struct {
	manager  *wca.IAudioSessionManager2
	eventCtx *ole.GUID
}

type wcaSessionEnumerator struct {
	enumerator *wca.IAudioSessionEnumerator
	eventCtx   *ole.GUID
}

type wcaSessionControl struct {
	control  *wca.IAudioSessionControl
	control2 *wca.IAudioSessionControl2
	eventCtx *ole.GUID
}

type wcaSimpleVolume struct {
	volume   *wca.ISimpleAudioVolume
	eventCtx *ole.GUID
}

// NewSubsystem returns the Windows Core Audio backend
func NewSubsystem(logger *zap.SugaredLogger) (Subsystem, error) {
	eventCtxID := uuid.NewSHA1(uuid.NameSpaceOID, []byte(eventContextName))

	s := &wcaSubsystem{
		logger:   logger.Named("wca"),
		eventCtx: ole.NewGUID(fmt.Sprintf("{%s}", eventCtxID)),
	}

	s.logger.Debugw("Created WCA subsystem instance", "eventCtx", eventCtxID)

	return s, nil
}

// Open initializes COM on the calling goroutine's OS thread. the goroutine stays
// pinned to that thread until the binding is released
func (s *wcaSubsystem) Open() (Binding, error) {
	runtime.LockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		oleError := &ole.OleError{}

		if !errors.As(err, &oleError) || oleError.Code() != sFalse {
			runtime.UnlockOSThread()

			s.logger.Warnw("Failed to call CoInitializeEx", "error", err)
			return nil, fmt.Errorf("call CoInitializeEx: %w", err)
		}

		s.logger.Debug("COM already initialized on this thread")
	}

	return &wcaBinding{logger: s.logger, eventCtx: s.eventCtx}, nil
}

func (b *wcaBinding) DefaultRenderEndpoint() (Endpoint, error) {
	var mmDeviceEnumerator *wca.IMMDeviceEnumerator

	if err := wca.CoCreateInstance(
		wca.CLSID_MMDeviceEnumerator,
		0,
		wca.CLSCTX_ALL,
		wca.IID_IMMDeviceEnumerator,
		&mmDeviceEnumerator,
	); err != nil {
		return nil, fmt.Errorf("call CoCreateInstance: %w", err)
	}

	var mmOutDevice *wca.IMMDevice

	if err := mmDeviceEnumerator.GetDefaultAudioEndpoint(wca.ERender, wca.EConsole, &mmOutDevice); err != nil {
		mmDeviceEnumerator.Release()
		return nil, fmt.Errorf("call GetDefaultAudioEndpoint: %w", err)
	}

	return &wcaEndpoint{deviceEnumerator: mmDeviceEnumerator, device: mmOutDevice, eventCtx: b.eventCtx}, nil
}

func (b *wcaBinding) Release() {
	ole.CoUninitialize()
	runtime.UnlockOSThread()

	b.logger.Debug("Released COM binding")
}

// go-wca passes the activation context to IMMDevice::Activate by pointer, which fails
// with E_INVALIDARG on some setups (RDP sessions in particular). call through the vtable instead
func mmdActivateWorkaround(mmd *wca.IMMDevice, refIID *ole.GUID, ctx uint32, obj interface{}) (err error) {
	objValue := reflect.ValueOf(obj).Elem()
	hr, _, _ := syscall.SyscallN(
		mmd.VTable().Activate,
		uintptr(unsafe.Pointer(mmd)),
		uintptr(unsafe.Pointer(refIID)),
		uintptr(ctx),
		0,
		objValue.Addr().Pointer())
	if hr != 0 {
		err = ole.NewError(hr)
	}
	return
}

func (e *wcaEndpoint) SessionManager() (SessionManager, error) {
	var audioSessionManager2 *wca.IAudioSessionManager2

	if err := mmdActivateWorkaround(e.device, wca.IID_IAudioSessionManager2, wca.CLSCTX_ALL, &audioSessionManager2); err != nil {
		return nil, fmt.Errorf("activate endpoint: %w", err)
	}

	return &wcaSessionManager{manager: audioSessionManager2, eventCtx: e.eventCtx}, nil
}

func (e *wcaEndpoint) Release() {
	e.device.Release()
	e.deviceEnumerator.Release()
}

func (m *wcaSessionManager) Sessions() (SessionEnumerator, error) {
	var sessionEnumerator *wca.IAudioSessionEnumerator

	if err := m.manager.GetSessionEnumerator(&sessionEnumerator); err != nil {
		return nil, fmt.Errorf("call GetSessionEnumerator: %w", err)
	}

	return &wcaSessionEnumerator{enumerator: sessionEnumerator, eventCtx: m.eventCtx}, nil
}

func (m *wcaSessionManager) Release() {
	m.manager.Release()
}

func (se *wcaSessionEnumerator) Count() (int, error) {
	var sessionCount int

	if err := se.enumerator.GetCount(&sessionCount); err != nil {
		return 0, fmt.Errorf("call GetCount: %w", err)
	}

	return sessionCount, nil
}

func (se *wcaSessionEnumerator) Session(idx int) (SessionControl, error) {
	var audioSessionControl *wca.IAudioSessionControl

	if err := se.enumerator.GetSession(idx, &audioSessionControl); err != nil {
		return nil, fmt.Errorf("call GetSession: %w", err)
	}

	dispatch, err := audioSessionControl.QueryInterface(wca.IID_IAudioSessionControl2)
	if err != nil {
		audioSessionControl.Release()
		return nil, fmt.Errorf("query IAudioSessionControl2: %w", err)
	}

	return &wcaSessionControl{
		control:  audioSessionControl,
		control2: (*wca.IAudioSessionControl2)(unsafe.Pointer(dispatch)),
		eventCtx: se.eventCtx,
	}, nil
}

func (se *wcaSessionEnumerator) Release() {
	se.enumerator.Release()
}

func (c *wcaSessionControl) InstanceIdentifier() (string, error) {
	var identifier string

	if err := c.control2.GetSessionInstanceIdentifier(&identifier); err != nil {
		return "", fmt.Errorf("call GetSessionInstanceIdentifier: %w", err)
	}

	return identifier, nil
}

// ProcessID errors with AUDCLNT_S_NO_CURRENT_PROCESS for the system sounds session
// and for sessions shared across processes
func (c *wcaSessionControl) ProcessID() (uint32, error) {
	var pid uint32

	if err := c.control2.GetProcessId(&pid); err != nil {
		return 0, fmt.Errorf("call GetProcessId: %w", err)
	}

	return pid, nil
}

func (c *wcaSessionControl) SimpleVolume() (SimpleVolume, error) {
	dispatch, err := c.control2.QueryInterface(wca.IID_ISimpleAudioVolume)
	if err != nil {
		return nil, fmt.Errorf("query ISimpleAudioVolume: %w", err)
	}

	return &wcaSimpleVolume{
		volume:   (*wca.ISimpleAudioVolume)(unsafe.Pointer(dispatch)),
		eventCtx: c.eventCtx,
	}, nil
}

// Release drops the interfaces in reverse acquisition order
func (c *wcaSessionControl) Release() {
	c.control2.Release()
	c.control.Release()
}

func (v *wcaSimpleVolume) MasterVolume() (float32, error) {
	var level float32

	if err := v.volume.GetMasterVolume(&level); err != nil {
		return 0, fmt.Errorf("call GetMasterVolume: %w", err)
	}

	return level, nil
}

func (v *wcaSimpleVolume) SetMasterVolume(level float32) error {
	if err := v.volume.SetMasterVolume(level, v.eventCtx); err != nil {
		return fmt.Errorf("call SetMasterVolume: %w", err)
	}

	return nil
}

func (v *wcaSimpleVolume) Release() {
	v.volume.Release()
}
