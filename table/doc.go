/*
Package table implements the raw storage layer for the stockroom ECS.

A Table stores the records of every entity sharing one exact component set
as contiguous rows inside a single byte buffer. The in-memory layout of a row
is computed at runtime from the registered element types (size, alignment,
optional finalizer), packed in descending alignment order so every field
offset is naturally aligned without per-field padding gaps.

Identity is handled by an EntryIndex: a generational-index allocator that
maps a stable EntryID to the entry's current (table, row) location. Rows move
on swap-remove and on archetype transfer; the index is repointed on every
move so entries stay valid across structural changes. Growth never moves
rows relative to each other.

The hot paths (row pointers, field access, iteration) are unchecked by
design: bounds and liveness are caller-enforced preconditions. Checked entry
points (NewEntries, DeleteEntries, TransferEntries, EntryAt) convert misuse
into errors. Allocation failure and counter overflow are fatal.

Package table is not safe for concurrent use. Callers sequence access
externally; see the stockroom package for the locking facade.
*/
package table
