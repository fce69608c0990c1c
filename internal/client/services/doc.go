// Package services contains the application services of the desk client:
// the session manager (SessionService), the recruitment pipeline state
// machine (PipelineService) and the active module selector (ModuleService).
package services
