package cache

import (
	"fmt"

	"lark/internal/annot"
	"lark/internal/diag"
	"lark/internal/names"
	"lark/internal/source"
	"lark/internal/types"
)

// Decode validates a payload and rebuilds the annotation map. Span
// file ids in the result index the payload's Files table; callers
// merging several payloads rebase them onto a shared file set.
func Decode(p *Payload) (*annot.Map, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil payload", ErrCorrupt)
	}
	if p.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchemaMismatch, p.Schema, SchemaVersion)
	}

	d := &decoder{payload: p}
	if err := d.buildKinds(); err != nil {
		return nil, err
	}
	if err := d.buildTypes(); err != nil {
		return nil, err
	}

	entries := make([]annot.Entry, 0, len(p.Entries))
	for i := range p.Entries {
		entry, err := d.decodeEntry(&p.Entries[i])
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrCorrupt, i, err)
		}
		entries = append(entries, entry)
	}
	return annot.FromEntries(entries), nil
}

type decoder struct {
	payload *Payload
	kinds   []types.Kind
	types   []types.Type
}

func (d *decoder) str(idx uint32) (string, error) {
	if int(idx) >= len(d.payload.Strings) {
		return "", fmt.Errorf("string index %d out of range", idx)
	}
	return d.payload.Strings[idx], nil
}

func (d *decoder) qname(modIdx, nameIdx uint32) (names.QName, error) {
	mod, err := d.str(modIdx)
	if err != nil {
		return names.QName{}, err
	}
	name, err := d.str(nameIdx)
	if err != nil {
		return names.QName{}, err
	}
	return names.QName{Module: mod, Name: name}, nil
}

// buildKinds decodes the kind table in one forward pass. Rows may only
// reference earlier rows.
func (d *decoder) buildKinds() error {
	d.kinds = make([]types.Kind, 0, len(d.payload.Kinds))
	for i, row := range d.payload.Kinds {
		switch row.Tag {
		case kindConTag:
			name, err := d.str(row.Name)
			if err != nil {
				return fmt.Errorf("%w: kind %d: %v", ErrCorrupt, i, err)
			}
			d.kinds = append(d.kinds, types.KCon(name))
		case kindArrowTag:
			if int(row.From) >= i || int(row.To) >= i {
				return fmt.Errorf("%w: kind %d references a later row", ErrCorrupt, i)
			}
			d.kinds = append(d.kinds, types.KArrow{From: d.kinds[row.From], To: d.kinds[row.To]})
		default:
			return fmt.Errorf("%w: kind %d has unknown tag %d", ErrCorrupt, i, row.Tag)
		}
	}
	return nil
}

func (d *decoder) kind(idx uint32) (types.Kind, error) {
	if int(idx) >= len(d.kinds) {
		return nil, fmt.Errorf("kind index %d out of range", idx)
	}
	return d.kinds[idx], nil
}

// buildTypes decodes the type table, same forward-only discipline.
func (d *decoder) buildTypes() error {
	d.types = make([]types.Type, 0, len(d.payload.Types))
	for i, row := range d.payload.Types {
		t, err := d.buildType(i, row)
		if err != nil {
			return fmt.Errorf("%w: type %d: %v", ErrCorrupt, i, err)
		}
		d.types = append(d.types, t)
	}
	return nil
}

func (d *decoder) buildType(i int, row TypeEntry) (types.Type, error) {
	earlier := func(idx uint32) (types.Type, error) {
		if int(idx) >= i {
			return nil, fmt.Errorf("references a later row (%d)", idx)
		}
		return d.types[idx], nil
	}

	switch row.Tag {
	case typeVarTag:
		k, err := d.kind(row.Kind)
		if err != nil {
			return nil, err
		}
		return types.Var{ID: types.VarID(row.VarID), Kind: k}, nil

	case typeConTag:
		k, err := d.kind(row.Kind)
		if err != nil {
			return nil, err
		}
		name, err := d.str(row.Name)
		if err != nil {
			return nil, err
		}
		return types.Con{Name: name, Kind: k}, nil

	case typeAppTag:
		fn, err := earlier(row.Fn)
		if err != nil {
			return nil, err
		}
		args := make([]types.Type, len(row.Args))
		for j, idx := range row.Args {
			if args[j], err = earlier(idx); err != nil {
				return nil, err
			}
		}
		return types.App{Fn: fn, Args: args}, nil

	case typeFunTag:
		params := make([]types.Type, len(row.Params))
		var err error
		for j, idx := range row.Params {
			if params[j], err = earlier(idx); err != nil {
				return nil, err
			}
		}
		result, err := earlier(row.Result)
		if err != nil {
			return nil, err
		}
		return types.Fun{Params: params, Result: result}, nil

	case typeForallTag:
		vars := make([]types.Var, len(row.Vars))
		for j, idx := range row.Vars {
			t, err := earlier(idx)
			if err != nil {
				return nil, err
			}
			v, ok := t.(types.Var)
			if !ok {
				return nil, fmt.Errorf("quantifier variable %d is %T", idx, t)
			}
			vars[j] = v
		}
		body, err := earlier(row.Body)
		if err != nil {
			return nil, err
		}
		return types.Forall{Vars: vars, Body: body}, nil

	default:
		return nil, fmt.Errorf("unknown tag %d", row.Tag)
	}
}

func (d *decoder) typ(idx uint32) (types.Type, error) {
	if int(idx) >= len(d.types) {
		return nil, fmt.Errorf("type index %d out of range", idx)
	}
	return d.types[idx], nil
}

func (d *decoder) decodeEntry(dto *EntryDTO) (annot.Entry, error) {
	if int(dto.File) >= len(d.payload.Files) {
		return annot.Entry{}, fmt.Errorf("file index %d out of range", dto.File)
	}
	if dto.Start > dto.End {
		return annot.Entry{}, fmt.Errorf("span start %d past end %d", dto.Start, dto.End)
	}
	entry := annot.Entry{
		Span: source.Span{File: source.FileID(dto.File), Start: dto.Start, End: dto.End},
	}

	switch dto.Tag {
	case tagDecl:
		kind := annot.DeclKind(dto.DeclKind)
		if !kind.Valid() {
			return entry, fmt.Errorf("unknown declaration kind %d", dto.DeclKind)
		}
		name, err := d.qname(dto.NameMod, dto.Name)
		if err != nil {
			return entry, err
		}
		related, err := d.qname(dto.RelMod, dto.Rel)
		if err != nil {
			return entry, err
		}
		entry.Annot = annot.Decl{Kind: kind, Name: name, Related: related}

	case tagBlock:
		kind := annot.BlockKind(dto.BlockKind)
		if !kind.Valid() {
			return entry, fmt.Errorf("unknown block kind %d", dto.BlockKind)
		}
		entry.Annot = annot.Block{Kind: kind}

	case tagDiag:
		if dto.Severity > uint8(diag.SevError) {
			return entry, fmt.Errorf("unknown severity %d", dto.Severity)
		}
		msg, err := d.str(dto.Message)
		if err != nil {
			return entry, err
		}
		entry.Annot = annot.Diag{Severity: diag.Severity(dto.Severity), Message: msg}

	case tagRef:
		name, err := d.qname(dto.NameMod, dto.Name)
		if err != nil {
			return entry, err
		}
		info, err := d.decodeRefInfo(dto)
		if err != nil {
			return entry, err
		}
		var docs []string
		if len(dto.Docs) > 0 {
			docs = make([]string, len(dto.Docs))
			for i, idx := range dto.Docs {
				if docs[i], err = d.str(idx); err != nil {
					return entry, err
				}
			}
		}
		entry.Annot = annot.Ref{Name: name, Info: info, Docs: docs, IsDef: dto.IsDef}

	case tagImplicits:
		doc, err := d.str(dto.Message)
		if err != nil {
			return entry, err
		}
		entry.Annot = annot.Implicits{Doc: doc}

	default:
		return entry, fmt.Errorf("unknown annotation tag %d", dto.Tag)
	}
	return entry, nil
}

func (d *decoder) decodeRefInfo(dto *EntryDTO) (annot.RefInfo, error) {
	switch dto.InfoTag {
	case infoValue:
		t, err := d.typ(dto.TypeIdx)
		if err != nil {
			return nil, err
		}
		return annot.ValueInfo{Type: t}, nil
	case infoCon:
		t, err := d.typ(dto.TypeIdx)
		if err != nil {
			return nil, err
		}
		return annot.ConInfo{Type: t}, nil
	case infoTypeCon:
		k, err := d.kind(dto.KindIdx)
		if err != nil {
			return nil, err
		}
		return annot.TypeConInfo{Kind: k}, nil
	case infoTypeVar:
		k, err := d.kind(dto.KindIdx)
		if err != nil {
			return nil, err
		}
		return annot.TypeVarInfo{Kind: k}, nil
	case infoModule:
		return annot.ModuleInfo{}, nil
	case infoKind:
		return annot.KindInfo{}, nil
	default:
		return nil, fmt.Errorf("unknown reference info tag %d", dto.InfoTag)
	}
}
