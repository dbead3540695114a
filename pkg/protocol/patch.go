package protocol

import "errors"

// PatchOp is the type of view patch operation.
type PatchOp uint8

const (
	// PatchSetTransform sets a horizontal translation on a view.
	PatchSetTransform PatchOp = 0x01

	// PatchAttachPanel inserts a revealed side panel behind a row.
	PatchAttachPanel PatchOp = 0x02

	// PatchDetachPanel removes a previously attached panel.
	PatchDetachPanel PatchOp = 0x03

	// PatchSetInteraction toggles pointer interaction on a view.
	PatchSetInteraction PatchOp = 0x04

	// PatchSetHeight sets a view's height, used for row-collapse cleanup.
	PatchSetHeight PatchOp = 0x05

	// PatchRemoveRow removes a row from the list.
	PatchRemoveRow PatchOp = 0x06
)

// String returns the string representation of the patch operation.
func (op PatchOp) String() string {
	switch op {
	case PatchSetTransform:
		return "SetTransform"
	case PatchAttachPanel:
		return "AttachPanel"
	case PatchDetachPanel:
		return "DetachPanel"
	case PatchSetInteraction:
		return "SetInteraction"
	case PatchSetHeight:
		return "SetHeight"
	case PatchRemoveRow:
		return "RemoveRow"
	default:
		return "Unknown"
	}
}

// Panel side values for PatchAttachPanel.
const (
	PanelLeft  uint8 = 0
	PanelRight uint8 = 1
)

// Patch errors.
var (
	ErrUnknownPatchOp = errors.New("protocol: unknown patch op")
	ErrTooManyPatches = errors.New("protocol: patch batch too large")
)

// MaxPatchBatch caps the number of patches in a single frame.
const MaxPatchBatch = 4096

// Patch is one view mutation sent to the client. Target is a view
// identifier; the meaning of the remaining fields depends on Op:
//
//   - SetTransform:   Value = translation x
//   - AttachPanel:    Target = row, Panel = panel id, Side, Value = width
//   - DetachPanel:    Target = panel id
//   - SetInteraction: Enabled
//   - SetHeight:      Value = height
//   - RemoveRow:      Target = row
type Patch struct {
	Op      PatchOp
	Target  string
	Panel   string
	Side    uint8
	Value   float64
	Enabled bool
}

// EncodePatches encodes a patch batch to bytes.
func EncodePatches(patches []Patch) []byte {
	enc := NewEncoder()
	enc.WriteUvarint(uint64(len(patches)))
	for i := range patches {
		encodePatch(enc, &patches[i])
	}
	return enc.Bytes()
}

func encodePatch(enc *Encoder, p *Patch) {
	enc.WriteByte(byte(p.Op))
	enc.WriteString(p.Target)
	switch p.Op {
	case PatchSetTransform, PatchSetHeight:
		enc.WriteFloat64(p.Value)
	case PatchAttachPanel:
		enc.WriteString(p.Panel)
		enc.WriteByte(p.Side)
		enc.WriteFloat64(p.Value)
	case PatchSetInteraction:
		enc.WriteBool(p.Enabled)
	case PatchDetachPanel, PatchRemoveRow:
		// Target only.
	}
}

// DecodePatches decodes a patch batch from bytes.
func DecodePatches(data []byte) ([]Patch, error) {
	dec := NewDecoder(data)
	count, err := dec.ReadUvarint()
	if err != nil {
		return nil, err
	}
	if count > MaxPatchBatch {
		return nil, ErrTooManyPatches
	}
	patches := make([]Patch, 0, count)
	for i := uint64(0); i < count; i++ {
		p, err := decodePatch(dec)
		if err != nil {
			return nil, err
		}
		patches = append(patches, p)
	}
	return patches, nil
}

func decodePatch(dec *Decoder) (Patch, error) {
	var p Patch

	op, err := dec.ReadByte()
	if err != nil {
		return p, err
	}
	p.Op = PatchOp(op)
	if p.Target, err = dec.ReadString(); err != nil {
		return p, err
	}

	switch p.Op {
	case PatchSetTransform, PatchSetHeight:
		p.Value, err = dec.ReadFloat64()
	case PatchAttachPanel:
		if p.Panel, err = dec.ReadString(); err != nil {
			return p, err
		}
		if p.Side, err = dec.ReadByte(); err != nil {
			return p, err
		}
		p.Value, err = dec.ReadFloat64()
	case PatchSetInteraction:
		p.Enabled, err = dec.ReadBool()
	case PatchDetachPanel, PatchRemoveRow:
		// Target only.
	default:
		return p, ErrUnknownPatchOp
	}
	return p, err
}
