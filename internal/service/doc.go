// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and stores
// (defined in internal/store) to fulfill application features.
//
// The service package implements the application layer: task, category,
// user, and report services coordinate the flow of data between the API
// layer and the domain, abstracting away infrastructure details.
//
// Key components:
//
// 1. Service Interfaces:
//   - Define application-specific operations available to the API handlers
//   - Each service focuses on a specific domain area (tasks, categories,
//     users, reports)
//
// 2. Use Case Implementations:
//   - Coordinate between multiple stores and domain entities
//   - Apply transactional boundaries when operations span multiple writes
//   - Enforce ownership and access rules that span multiple entities
//
// 3. Dependency Management:
//   - Services receive dependencies through constructor injection
//   - Core dependencies are store interfaces, the database handle for
//     transactions, and a structured logger
//
// 4. Error Handling:
//   - Translate store-specific errors to the service error taxonomy
//     (ErrNotFound, ErrForbidden, ErrConflict, ErrValidation)
//   - Provide meaningful error context for API responses
//
// The service layer depends on domain entities and store interfaces, but
// never on specific infrastructure implementations.
package service
