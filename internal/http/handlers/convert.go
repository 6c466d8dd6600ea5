package handlers

import "order-consolidation/internal/domain"

func (d *degrees) ptr() *float64 {
	if d == nil {
		return nil
	}
	v := float64(*d)
	return &v
}

func (r createOrderRequest) toModel() *domain.Order {
	return &domain.Order{
		Name: r.Name,
		Sender: domain.Party{
			Name:     r.SenderName,
			Location: r.SenderLocation,
			Point:    domain.Coordinate{Lat: *r.SenderLat.ptr(), Lng: *r.SenderLong.ptr()},
		},
		Recipient: domain.Party{
			Name:     r.RecipientName,
			Location: r.RecipientLocation,
			Point:    domain.Coordinate{Lat: *r.RecipientLat.ptr(), Lng: *r.RecipientLong.ptr()},
		},
	}
}

func (r updateOrderRequest) toModel(id int64) domain.OrderPatch {
	return domain.OrderPatch{
		ID:                id,
		Name:              r.Name,
		SenderName:        r.SenderName,
		SenderLocation:    r.SenderLocation,
		SenderLat:         r.SenderLat.ptr(),
		SenderLng:         r.SenderLong.ptr(),
		RecipientName:     r.RecipientName,
		RecipientLocation: r.RecipientLocation,
		RecipientLat:      r.RecipientLat.ptr(),
		RecipientLng:      r.RecipientLong.ptr(),
	}
}

func modelToResponse(o domain.Order) orderDTO {
	return orderDTO{
		ID:                o.ID,
		Name:              o.Name,
		SenderName:        o.Sender.Name,
		SenderLocation:    o.Sender.Location,
		SenderLat:         o.Sender.Point.Lat,
		SenderLong:        o.Sender.Point.Lng,
		RecipientName:     o.Recipient.Name,
		RecipientLocation: o.Recipient.Location,
		RecipientLat:      o.Recipient.Point.Lat,
		RecipientLong:     o.Recipient.Point.Lng,
		DateCreated:       o.DateCreated,
		LastModified:      o.LastModified,
	}
}

func modelsToResponse(list []domain.Order) []orderDTO {
	out := make([]orderDTO, 0, len(list))
	for _, o := range list {
		out = append(out, modelToResponse(o))
	}
	return out
}

func pageToResponse(p domain.OrderPage) pageDTO {
	return pageDTO{
		Docs:           modelsToResponse(p.Items),
		Page:           p.Page,
		PerPage:        p.PerPage,
		TotalPages:     p.TotalPages,
		TotalDocsCount: p.TotalCount,
	}
}

func resultToResponse(res domain.ConsolidationResult) matchDTO {
	pairs := make([]pairDTO, 0, len(res.Pairs))
	for _, p := range res.Pairs {
		dto := pairDTO{
			OrderA:     p.OrderA,
			OrderB:     p.OrderB,
			Combinable: p.Verdict.Combinable,
			Reason:     string(p.Verdict.Reason),
		}
		if c := p.Verdict.Containment; c != nil {
			dto.Containment = &containmentDTO{
				BaseOrderID:      c.BaseOrderID,
				PickupLat:        c.Pickup.Lat,
				PickupLong:       c.Pickup.Lng,
				DropoffLat:       c.Dropoff.Lat,
				DropoffLong:      c.Dropoff.Lng,
				PickupDistanceM:  c.PickupDistanceM,
				DropoffDistanceM: c.DropoffDistanceM,
				ToleranceM:       c.ToleranceM,
			}
		}
		pairs = append(pairs, dto)
	}
	return matchDTO{
		RunID:               res.RunID,
		Partial:             res.Partial,
		TotalPairs:          res.TotalPairs,
		EvaluatedPairs:      res.EvaluatedPairs,
		InvalidTimestamps:   res.InvalidTimestamps,
		RouteLookupFailures: res.RouteLookupFailures,
		StartedAt:           res.StartedAt,
		DurationMS:          res.Duration.Milliseconds(),
		Pairs:               pairs,
	}
}
