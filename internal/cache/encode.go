package cache

import (
	"fmt"

	"lark/internal/annot"
	"lark/internal/types"
)

// encoder interns strings, kinds, and types structurally: children are
// interned before parents, so every table row references earlier rows
// only and identical subtrees collapse to one row.
type encoder struct {
	payload *Payload
	strings map[string]uint32
	kinds   map[string]uint32
	types   map[string]uint32
}

// Encode builds the wire payload for an annotation map. The files
// slice must cover every file id appearing in the map's spans: span
// file ids index it directly.
func Encode(module string, files []FileMeta, m *annot.Map) (*Payload, error) {
	e := &encoder{
		payload: &Payload{
			Schema: SchemaVersion,
			Module: module,
			Files:  files,
		},
		strings: make(map[string]uint32),
		kinds:   make(map[string]uint32),
		types:   make(map[string]uint32),
	}

	entries := m.Entries()
	e.payload.Entries = make([]EntryDTO, 0, len(entries))
	for i, entry := range entries {
		dto, err := e.encodeEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if int(dto.File) >= len(files) {
			return nil, fmt.Errorf("entry %d: span file %d has no file table row", i, dto.File)
		}
		e.payload.Entries = append(e.payload.Entries, dto)
	}
	return e.payload, nil
}

func (e *encoder) encodeEntry(entry annot.Entry) (EntryDTO, error) {
	dto := EntryDTO{
		File:  uint32(entry.Span.File),
		Start: entry.Span.Start,
		End:   entry.Span.End,
	}

	switch a := entry.Annot.(type) {
	case annot.Decl:
		dto.Tag = tagDecl
		dto.DeclKind = uint8(a.Kind)
		dto.NameMod = e.internString(a.Name.Module)
		dto.Name = e.internString(a.Name.Name)
		dto.RelMod = e.internString(a.Related.Module)
		dto.Rel = e.internString(a.Related.Name)

	case annot.Block:
		dto.Tag = tagBlock
		dto.BlockKind = uint8(a.Kind)

	case annot.Diag:
		dto.Tag = tagDiag
		dto.Severity = uint8(a.Severity)
		dto.Message = e.internString(a.Message)

	case annot.Ref:
		dto.Tag = tagRef
		dto.NameMod = e.internString(a.Name.Module)
		dto.Name = e.internString(a.Name.Name)
		dto.IsDef = a.IsDef
		if len(a.Docs) > 0 {
			dto.Docs = make([]uint32, len(a.Docs))
			for i, doc := range a.Docs {
				dto.Docs[i] = e.internString(doc)
			}
		}
		if err := e.encodeRefInfo(a.Info, &dto); err != nil {
			return dto, err
		}

	case annot.Implicits:
		dto.Tag = tagImplicits
		dto.Message = e.internString(a.Doc)

	default:
		return dto, fmt.Errorf("unsupported annotation %T", entry.Annot)
	}
	return dto, nil
}

func (e *encoder) encodeRefInfo(info annot.RefInfo, dto *EntryDTO) error {
	switch ri := info.(type) {
	case annot.ValueInfo:
		dto.InfoTag = infoValue
		idx, err := e.internType(ri.Type)
		if err != nil {
			return err
		}
		dto.TypeIdx = idx
	case annot.ConInfo:
		dto.InfoTag = infoCon
		idx, err := e.internType(ri.Type)
		if err != nil {
			return err
		}
		dto.TypeIdx = idx
	case annot.TypeConInfo:
		dto.InfoTag = infoTypeCon
		idx, err := e.internKind(ri.Kind)
		if err != nil {
			return err
		}
		dto.KindIdx = idx
	case annot.TypeVarInfo:
		dto.InfoTag = infoTypeVar
		idx, err := e.internKind(ri.Kind)
		if err != nil {
			return err
		}
		dto.KindIdx = idx
	case annot.ModuleInfo:
		dto.InfoTag = infoModule
	case annot.KindInfo:
		dto.InfoTag = infoKind
	default:
		return fmt.Errorf("unsupported reference info %T", info)
	}
	return nil
}

func (e *encoder) internString(s string) uint32 {
	if idx, ok := e.strings[s]; ok {
		return idx
	}
	idx := uint32(len(e.payload.Strings))
	e.payload.Strings = append(e.payload.Strings, s)
	e.strings[s] = idx
	return idx
}

func (e *encoder) internKind(k types.Kind) (uint32, error) {
	switch kind := k.(type) {
	case types.KCon:
		nameIdx := e.internString(string(kind))
		key := fmt.Sprintf("c%d", nameIdx)
		if idx, ok := e.kinds[key]; ok {
			return idx, nil
		}
		idx := uint32(len(e.payload.Kinds))
		e.payload.Kinds = append(e.payload.Kinds, KindEntry{Tag: kindConTag, Name: nameIdx})
		e.kinds[key] = idx
		return idx, nil

	case types.KArrow:
		from, err := e.internKind(kind.From)
		if err != nil {
			return 0, err
		}
		to, err := e.internKind(kind.To)
		if err != nil {
			return 0, err
		}
		key := fmt.Sprintf("a%d,%d", from, to)
		if idx, ok := e.kinds[key]; ok {
			return idx, nil
		}
		idx := uint32(len(e.payload.Kinds))
		e.payload.Kinds = append(e.payload.Kinds, KindEntry{Tag: kindArrowTag, From: from, To: to})
		e.kinds[key] = idx
		return idx, nil

	case nil:
		return 0, fmt.Errorf("missing kind payload")

	default:
		return 0, fmt.Errorf("unsupported kind %T", k)
	}
}

func (e *encoder) internType(t types.Type) (uint32, error) {
	switch ty := t.(type) {
	case types.Var:
		kindIdx, err := e.internKind(ty.Kind)
		if err != nil {
			return 0, err
		}
		return e.addType(
			fmt.Sprintf("v%d,%d", ty.ID, kindIdx),
			TypeEntry{Tag: typeVarTag, VarID: uint32(ty.ID), Kind: kindIdx},
		), nil

	case types.Con:
		kindIdx, err := e.internKind(ty.Kind)
		if err != nil {
			return 0, err
		}
		nameIdx := e.internString(ty.Name)
		return e.addType(
			fmt.Sprintf("c%d,%d", nameIdx, kindIdx),
			TypeEntry{Tag: typeConTag, Name: nameIdx, Kind: kindIdx},
		), nil

	case types.App:
		fn, err := e.internType(ty.Fn)
		if err != nil {
			return 0, err
		}
		args := make([]uint32, len(ty.Args))
		for i, arg := range ty.Args {
			if args[i], err = e.internType(arg); err != nil {
				return 0, err
			}
		}
		return e.addType(
			fmt.Sprintf("a%d:%v", fn, args),
			TypeEntry{Tag: typeAppTag, Fn: fn, Args: args},
		), nil

	case types.Fun:
		params := make([]uint32, len(ty.Params))
		var err error
		for i, p := range ty.Params {
			if params[i], err = e.internType(p); err != nil {
				return 0, err
			}
		}
		result, err := e.internType(ty.Result)
		if err != nil {
			return 0, err
		}
		return e.addType(
			fmt.Sprintf("f%v:%d", params, result),
			TypeEntry{Tag: typeFunTag, Params: params, Result: result},
		), nil

	case types.Forall:
		vars := make([]uint32, len(ty.Vars))
		var err error
		for i, v := range ty.Vars {
			if vars[i], err = e.internType(v); err != nil {
				return 0, err
			}
		}
		body, err := e.internType(ty.Body)
		if err != nil {
			return 0, err
		}
		return e.addType(
			fmt.Sprintf("q%v:%d", vars, body),
			TypeEntry{Tag: typeForallTag, Vars: vars, Body: body},
		), nil

	case nil:
		return 0, fmt.Errorf("missing type payload")

	default:
		return 0, fmt.Errorf("unsupported type %T", t)
	}
}

func (e *encoder) addType(key string, entry TypeEntry) uint32 {
	if idx, ok := e.types[key]; ok {
		return idx
	}
	idx := uint32(len(e.payload.Types))
	e.payload.Types = append(e.payload.Types, entry)
	e.types[key] = idx
	return idx
}
