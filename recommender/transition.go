package recommender

import (
	"context"
	"fmt"
	"strings"
)

// TransitionPath is a walk between two images. IDs holds every node of the
// graph path; Prompts may be shorter when interior nodes had no prompt.
type TransitionPath struct {
	IDs     []string `json:"ids"`
	Prompts []string `json:"prompts"`
}

// FindTransitionPrompts returns prompts walking from id1 to id2. The first
// prompt belongs to id1 and the last to id2.
func (r *Recommender) FindTransitionPrompts(ctx context.Context, id1, id2 string) ([]string, error) {
	path, err := r.FindTransitionPath(ctx, id1, id2)
	if err != nil {
		return nil, err
	}
	return path.Prompts, nil
}

// FindTransitionPath returns the graph path from id1 to id2 together with its
// prompts.
func (r *Recommender) FindTransitionPath(ctx context.Context, id1, id2 string) (TransitionPath, error) {
	path, candidates, err := r.findTransition(ctx, id1, id2)
	r.logger.LogTransition(ctx, id1, id2, candidates, max(len(path.IDs)-1, 0), err)
	return path, err
}

func (r *Recommender) findTransition(ctx context.Context, id1, id2 string) (TransitionPath, int, error) {
	if err := ctx.Err(); err != nil {
		return TransitionPath{}, 0, err
	}
	sp, err := r.space(r.kind)
	if err != nil {
		return TransitionPath{}, 0, err
	}
	if r.prompts == nil {
		return TransitionPath{}, 0, ErrNoPromptService
	}
	from, fromID, err := r.resolve(sp, id1)
	if err != nil {
		return TransitionPath{}, 0, err
	}
	to, toID, err := r.resolve(sp, id2)
	if err != nil {
		return TransitionPath{}, 0, err
	}
	first, err := r.endpointPrompt(ctx, fromID)
	if err != nil {
		return TransitionPath{}, 0, err
	}
	last, err := r.endpointPrompt(ctx, toID)
	if err != nil {
		return TransitionPath{}, 0, err
	}
	if from == to {
		return TransitionPath{IDs: []string{fromID}, Prompts: []string{first}}, 1, nil
	}

	set, err := r.gatherCandidates(sp, from, to)
	if err != nil {
		return TransitionPath{}, 0, err
	}
	g := buildGraph(sp, set.ords, set.groups, r.transition)
	route, ok := g.shortestPath(0, 1, r.transition.MaxHops)
	if !ok {
		return TransitionPath{}, len(set.ords), fmt.Errorf("%w: %s -> %s", ErrNoPath, fromID, toID)
	}

	path := TransitionPath{
		IDs:     make([]string, len(route)),
		Prompts: make([]string, 0, len(route)),
	}
	for i, node := range route {
		path.IDs[i] = sp.ids[g.ords[node]]
	}
	path.Prompts = append(path.Prompts, first)
	for _, id := range path.IDs[1 : len(path.IDs)-1] {
		prompt, err := r.prompts.Prompt(ctx, id)
		if err != nil || strings.TrimSpace(prompt) == "" {
			continue
		}
		if len(path.Prompts) > 1 && path.Prompts[len(path.Prompts)-1] == prompt {
			continue
		}
		path.Prompts = append(path.Prompts, prompt)
	}
	path.Prompts = append(path.Prompts, last)
	return path, len(set.ords), nil
}

func (r *Recommender) endpointPrompt(ctx context.Context, id string) (string, error) {
	if !r.prompts.Exists(ctx, id) {
		return "", fmt.Errorf("%w: no prompt for %s", ErrNotFound, id)
	}
	prompt, err := r.prompts.Prompt(ctx, id)
	if err != nil {
		return "", fmt.Errorf("%w: prompt for %s: %w", ErrNotFound, id, err)
	}
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: empty prompt for %s", ErrNotFound, id)
	}
	return prompt, nil
}
