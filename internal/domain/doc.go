// Package domain holds the entities of the task manager (users, categories,
// tasks and their assignment and collaboration relations) together with the
// validation rules that must hold regardless of transport or storage.
package domain
