package engine

// recentMax bounds the recent-target list.
const recentMax = 5

// recentList is a bounded most-recent-first target list with no
// duplicates: pushing an existing target moves it to the front.
type recentList struct {
	targets []string
}

func (r *recentList) push(target string) {
	for i, t := range r.targets {
		if t == target {
			r.targets = append(r.targets[:i], r.targets[i+1:]...)
			break
		}
	}
	r.targets = append([]string{target}, r.targets...)
	if len(r.targets) > recentMax {
		r.targets = r.targets[:recentMax]
	}
}

func (r *recentList) list() []string {
	out := make([]string, len(r.targets))
	copy(out, r.targets)
	return out
}
