package types

// FrameID is the index of a frame within a buffer pool's fixed frame array.
type FrameID int32
