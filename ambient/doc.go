// Package ambient provides implementations of interfaces.Root, the ambient
// environment inspected by the discovery strategies.
//
// MapRoot is an in-memory root object for hosts that inject clients
// programmatically. EnvRoot derives the same properties from the process
// environment.
package ambient
