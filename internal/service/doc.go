// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and the stores
// (defined in internal/store) to fulfill application features.
//
// The campaign service is the write path for campaigns: creating a campaign
// and the task that will dispatch it is one transactional unit, so the
// scheduler can rely on every scheduled campaign having exactly one driving
// task. Read paths are scoped to the caller's project; entities belonging to
// other projects are indistinguishable from missing ones.
package service
