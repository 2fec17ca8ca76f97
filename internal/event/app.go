package event

import "github.com/annel0/eventpump/internal/native"

// События без собственных полей.

type Quit struct{ Header }

func (Quit) Kind() Kind         { return KindQuit }
func (Quit) put(*native.Record) {}

type AppTerminating struct{ Header }

func (AppTerminating) Kind() Kind { return KindAppTerminating }

type AppLowMemory struct{ Header }

func (AppLowMemory) Kind() Kind { return KindAppLowMemory }

type AppWillEnterBackground struct{ Header }

func (AppWillEnterBackground) Kind() Kind { return KindAppWillEnterBackground }

type AppDidEnterBackground struct{ Header }

func (AppDidEnterBackground) Kind() Kind { return KindAppDidEnterBackground }

type AppWillEnterForeground struct{ Header }

func (AppWillEnterForeground) Kind() Kind { return KindAppWillEnterForeground }

type AppDidEnterForeground struct{ Header }

func (AppDidEnterForeground) Kind() Kind { return KindAppDidEnterForeground }

// ClipboardUpdate содержимое буфера обмена изменилось.
type ClipboardUpdate struct{ Header }

func (ClipboardUpdate) Kind() Kind { return KindClipboardUpdate }

// RenderTargetsReset содержимое целей рендера потеряно.
type RenderTargetsReset struct{ Header }

func (RenderTargetsReset) Kind() Kind { return KindRenderTargetsReset }

// RenderDeviceReset устройство рендера пересоздано, текстуры нужно загрузить заново.
type RenderDeviceReset struct{ Header }

func (RenderDeviceReset) Kind() Kind { return KindRenderDeviceReset }
