// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	mapiYbi3Timu3id3r5YbZneHQΞΞ   = ord.NewMapSer[string, string](ord.String, ord.String)
	ptrNZlWqΔJGΔVi6Δ2WdwuΔKkAΞΞ   = ord.NewPtrSer[Passage](PassageMUS)
	ptrpandL7A04azluKHgX2HΣqwΞΞ   = ord.NewPtrSer[SearchCandidate](SearchCandidateMUS)
	sliceCvjBdGxF5uMy0GVi926TXwΞΞ = ord.NewSliceSer[*SearchCandidate](ptrpandL7A04azluKHgX2HΣqwΞΞ)
	sliceNQor4pqiwQDRURZxΔaJVPAΞΞ = ord.NewSliceSer[float32](varint.Float32)
)

var SourceTagMUS = sourceTagMUS{}

type sourceTagMUS struct{}

func (s sourceTagMUS) Marshal(v SourceTag, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s sourceTagMUS) Unmarshal(bs []byte) (v SourceTag, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = SourceTag(tmp)
	return
}

func (s sourceTagMUS) Size(v SourceTag) (size int) {
	return varint.Int.Size(int(v))
}

func (s sourceTagMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var IDMUS = iDMUS{}

type iDMUS struct{}

func (s iDMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s iDMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ID(tmp)
	return
}

func (s iDMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s iDMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

var PassageMUS = passageMUS{}

type passageMUS struct{}

func (s passageMUS) Marshal(v Passage, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Text, bs[n:])
	n += sliceNQor4pqiwQDRURZxΔaJVPAΞΞ.Marshal(v.Vector, bs[n:])
	n += SourceTagMUS.Marshal(v.Source, bs[n:])
	n += mapiYbi3Timu3id3r5YbZneHQΞΞ.Marshal(v.Origin, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.InsertedAt, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
}

func (s passageMUS) Unmarshal(bs []byte) (v Passage, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vector, n1, err = sliceNQor4pqiwQDRURZxΔaJVPAΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Source, n1, err = SourceTagMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Origin, n1, err = mapiYbi3Timu3id3r5YbZneHQΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s passageMUS) Size(v Passage) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Text)
	size += sliceNQor4pqiwQDRURZxΔaJVPAΞΞ.Size(v.Vector)
	size += SourceTagMUS.Size(v.Source)
	size += mapiYbi3Timu3id3r5YbZneHQΞΞ.Size(v.Origin)
	size += raw.TimeUnixMicro.Size(v.InsertedAt)
	return size + raw.TimeUnixMicro.Size(v.UpdatedAt)
}

func (s passageMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceNQor4pqiwQDRURZxΔaJVPAΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = SourceTagMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = mapiYbi3Timu3id3r5YbZneHQΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}

var SearchCandidateMUS = searchCandidateMUS{}

type searchCandidateMUS struct{}

func (s searchCandidateMUS) Marshal(v SearchCandidate, bs []byte) (n int) {
	n = ptrNZlWqΔJGΔVi6Δ2WdwuΔKkAΞΞ.Marshal(v.Passage, bs)
	n += varint.Float32.Marshal(v.RawScore, bs[n:])
	n += varint.Float32.Marshal(v.NormScore, bs[n:])
	n += varint.Float32.Marshal(v.OriginWeight, bs[n:])
	n += varint.Float32.Marshal(v.RerankScore, bs[n:])
	return n + ord.Bool.Marshal(v.Reranked, bs[n:])
}

func (s searchCandidateMUS) Unmarshal(bs []byte) (v SearchCandidate, n int, err error) {
	v.Passage, n, err = ptrNZlWqΔJGΔVi6Δ2WdwuΔKkAΞΞ.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.RawScore, n1, err = varint.Float32.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.NormScore, n1, err = varint.Float32.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.OriginWeight, n1, err = varint.Float32.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.RerankScore, n1, err = varint.Float32.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Reranked, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	return
}

func (s searchCandidateMUS) Size(v SearchCandidate) (size int) {
	size = ptrNZlWqΔJGΔVi6Δ2WdwuΔKkAΞΞ.Size(v.Passage)
	size += varint.Float32.Size(v.RawScore)
	size += varint.Float32.Size(v.NormScore)
	size += varint.Float32.Size(v.OriginWeight)
	size += varint.Float32.Size(v.RerankScore)
	return size + ord.Bool.Size(v.Reranked)
}

func (s searchCandidateMUS) Skip(bs []byte) (n int, err error) {
	n, err = ptrNZlWqΔJGΔVi6Δ2WdwuΔKkAΞΞ.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = varint.Float32.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Float32.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Float32.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Float32.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.Bool.Skip(bs[n:])
	n += n1
	return
}

var SearchResultMUS = searchResultMUS{}

type searchResultMUS struct{}

func (s searchResultMUS) Marshal(v SearchResult, bs []byte) (n int) {
	n = ord.String.Marshal(v.Query, bs)
	n += sliceCvjBdGxF5uMy0GVi926TXwΞΞ.Marshal(v.Candidates, bs[n:])
	n += ord.Bool.Marshal(v.HypothesisUsed, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.Timestamp, bs[n:])
}

func (s searchResultMUS) Unmarshal(bs []byte) (v SearchResult, n int, err error) {
	v.Query, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Candidates, n1, err = sliceCvjBdGxF5uMy0GVi926TXwΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.HypothesisUsed, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Timestamp, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s searchResultMUS) Size(v SearchResult) (size int) {
	size = ord.String.Size(v.Query)
	size += sliceCvjBdGxF5uMy0GVi926TXwΞΞ.Size(v.Candidates)
	size += ord.Bool.Size(v.HypothesisUsed)
	return size + raw.TimeUnixMicro.Size(v.Timestamp)
}

func (s searchResultMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = sliceCvjBdGxF5uMy0GVi926TXwΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.Bool.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}

var UsageRecordMUS = usageRecordMUS{}

type usageRecordMUS struct{}

func (s usageRecordMUS) Marshal(v UsageRecord, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Provider, bs[n:])
	n += ord.String.Marshal(v.Model, bs[n:])
	n += ord.String.Marshal(v.TaskType, bs[n:])
	n += varint.Int.Marshal(v.TokensIn, bs[n:])
	n += varint.Int.Marshal(v.TokensOut, bs[n:])
	n += varint.Float64.Marshal(v.Cost, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.Timestamp, bs[n:])
}

func (s usageRecordMUS) Unmarshal(bs []byte) (v UsageRecord, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Provider, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Model, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.TaskType, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.TokensIn, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.TokensOut, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Cost, n1, err = varint.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Timestamp, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s usageRecordMUS) Size(v UsageRecord) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Provider)
	size += ord.String.Size(v.Model)
	size += ord.String.Size(v.TaskType)
	size += varint.Int.Size(v.TokensIn)
	size += varint.Int.Size(v.TokensOut)
	size += varint.Float64.Size(v.Cost)
	return size + raw.TimeUnixMicro.Size(v.Timestamp)
}

func (s usageRecordMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Float64.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}

var BudgetStateMUS = budgetStateMUS{}

type budgetStateMUS struct{}

func (s budgetStateMUS) Marshal(v BudgetState, bs []byte) (n int) {
	n = raw.TimeUnixMicro.Marshal(v.PeriodStart, bs)
	n += varint.Float64.Marshal(v.MonthlyLimit, bs[n:])
	return n + varint.Float64.Marshal(v.SpentToDate, bs[n:])
}

func (s budgetStateMUS) Unmarshal(bs []byte) (v BudgetState, n int, err error) {
	v.PeriodStart, n, err = raw.TimeUnixMicro.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.MonthlyLimit, n1, err = varint.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SpentToDate, n1, err = varint.Float64.Unmarshal(bs[n:])
	n += n1
	return
}

func (s budgetStateMUS) Size(v BudgetState) (size int) {
	size = raw.TimeUnixMicro.Size(v.PeriodStart)
	size += varint.Float64.Size(v.MonthlyLimit)
	return size + varint.Float64.Size(v.SpentToDate)
}

func (s budgetStateMUS) Skip(bs []byte) (n int, err error) {
	n, err = raw.TimeUnixMicro.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = varint.Float64.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Float64.Skip(bs[n:])
	n += n1
	return
}
