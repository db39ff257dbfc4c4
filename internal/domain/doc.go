// Package domain holds the shared model of the formation wizard.
//
// Contents
//
//   - FormationDraft and its parts, each field wrapped in a Slot that records
//     whether the wizard has collected it
//   - Entity ending tables per jurisdiction and company type
//   - NameCheckTask, TaskHandle and TaskStatus for the background check
//   - SessionRecord and SessionSummary for persistence
//   - The error taxonomy shared by every layer
//   - Interfaces implemented by the store, services and remote client
package domain
