package logging

// Package-level convenience helpers, one set per category. Info-level unless
// suffixed otherwise.

func Boot(format string, args ...interface{}) { Get(CategoryBoot).Info(format, args...) }

func Gateway(format string, args ...interface{})      { Get(CategoryGateway).Info(format, args...) }
func GatewayDebug(format string, args ...interface{}) { Get(CategoryGateway).Debug(format, args...) }
func GatewayWarn(format string, args ...interface{})  { Get(CategoryGateway).Warn(format, args...) }
func GatewayError(format string, args ...interface{}) { Get(CategoryGateway).Error(format, args...) }

func Orchestrator(format string, args ...interface{}) {
	Get(CategoryOrchestrator).Info(format, args...)
}
func OrchestratorDebug(format string, args ...interface{}) {
	Get(CategoryOrchestrator).Debug(format, args...)
}
func OrchestratorWarn(format string, args ...interface{}) {
	Get(CategoryOrchestrator).Warn(format, args...)
}
func OrchestratorError(format string, args ...interface{}) {
	Get(CategoryOrchestrator).Error(format, args...)
}

func Vault(format string, args ...interface{})      { Get(CategoryVault).Info(format, args...) }
func VaultDebug(format string, args ...interface{}) { Get(CategoryVault).Debug(format, args...) }
func VaultWarn(format string, args ...interface{})  { Get(CategoryVault).Warn(format, args...) }

func Extractor(format string, args ...interface{})      { Get(CategoryExtractor).Info(format, args...) }
func ExtractorDebug(format string, args ...interface{}) { Get(CategoryExtractor).Debug(format, args...) }
func ExtractorWarn(format string, args ...interface{})  { Get(CategoryExtractor).Warn(format, args...) }
func ExtractorError(format string, args ...interface{}) { Get(CategoryExtractor).Error(format, args...) }

func Persist(format string, args ...interface{})      { Get(CategoryPersist).Info(format, args...) }
func PersistDebug(format string, args ...interface{}) { Get(CategoryPersist).Debug(format, args...) }
func PersistWarn(format string, args ...interface{})  { Get(CategoryPersist).Warn(format, args...) }
func PersistError(format string, args ...interface{}) { Get(CategoryPersist).Error(format, args...) }

func Creative(format string, args ...interface{})      { Get(CategoryCreative).Info(format, args...) }
func CreativeDebug(format string, args ...interface{}) { Get(CategoryCreative).Debug(format, args...) }
func CreativeWarn(format string, args ...interface{})  { Get(CategoryCreative).Warn(format, args...) }
func CreativeError(format string, args ...interface{}) { Get(CategoryCreative).Error(format, args...) }

func Activity(format string, args ...interface{}) { Get(CategoryActivity).Info(format, args...) }
