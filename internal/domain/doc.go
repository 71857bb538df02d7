// Package domain contains the core business entities, value objects, and
// domain logic of the application: content items and their cached artifacts,
// published posts, import records, collections and activity streaks. It is
// independent of any specific infrastructure or delivery mechanism.
package domain
