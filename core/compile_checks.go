package core

import glog "github.com/goliatone/go-logger/glog"

var (
	_ VersionDetector  = StaticDetector{}
	_ VersionDetector  = ReleaseDetector{}
	_ ContainerFactory = ContainerFactoryFunc(nil)
	_ Handle           = HandleFunc(nil)
	_ ConfigProvider   = (*CfgxConfigProvider)(nil)
	_ OptionsResolver  = GoOptionsResolver{}
	_ MetricsRecorder  = NopMetricsRecorder{}

	_ Logger         = glog.Nop()
	_ LoggerProvider = glog.ProviderFromLogger(glog.Nop())
)
