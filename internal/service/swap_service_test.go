package service

import (
	"context"
	"sync"
	"testing"

	"skill-swap/internal/model"
	"skill-swap/internal/testutil"
	"skill-swap/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRequestIsAlwaysPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice@example.com", "Alice")
	bob := f.user(t, "bob@example.com", "Bob")
	skill := testutil.CreateSkill(t, f.db, alice.ID, "React", "Tech", model.SkillTypeTeach)

	req, err := f.swaps.CreateRequest(ctx, bob.ID, CreateRequestInput{ReceiverID: alice.ID, SkillID: skill.ID, Message: strPtr("Teach me?")})
	require.NoError(t, err)
	assert.Equal(t, model.SwapStatusPending, req.Status)
	assert.Equal(t, bob.ID, req.SenderID)
	require.NotNil(t, req.Skill)
	assert.Equal(t, []string{events.SwapRequestCreated}, f.publisher.published())

	stored, err := f.swapRepo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SwapStatusPending, stored.Status)
	assert.Equal(t, "Teach me?", *stored.Message)

	// 技能不要求属于接收者
	bobSkill := testutil.CreateSkill(t, f.db, bob.ID, "Guitar", "Music", model.SkillTypeTeach)
	_, err = f.swaps.CreateRequest(ctx, bob.ID, CreateRequestInput{ReceiverID: alice.ID, SkillID: bobSkill.ID})
	require.NoError(t, err)

	_, err = f.swaps.CreateRequest(ctx, bob.ID, CreateRequestInput{ReceiverID: bob.ID, SkillID: skill.ID})
	assertKind(t, err, model.KindValidation)
	_, err = f.swaps.CreateRequest(ctx, bob.ID, CreateRequestInput{ReceiverID: 999, SkillID: skill.ID})
	assertKind(t, err, model.KindNotFound)
	_, err = f.swaps.CreateRequest(ctx, bob.ID, CreateRequestInput{ReceiverID: alice.ID, SkillID: 999})
	assertKind(t, err, model.KindNotFound)
	_, err = f.swaps.CreateRequest(ctx, bob.ID, CreateRequestInput{})
	assertKind(t, err, model.KindValidation)
}

func TestListRequestsReturnsExactlyInvolvedRequests(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice@example.com", "Alice")
	bob := f.user(t, "bob@example.com", "Bob")
	carol := f.user(t, "carol@example.com", "Carol")
	skill := testutil.CreateSkill(t, f.db, alice.ID, "React", "Tech", model.SkillTypeTeach)

	mk := func(sender, receiver uint) *model.SwapRequest {
		r, err := f.swaps.CreateRequest(ctx, sender, CreateRequestInput{ReceiverID: receiver, SkillID: skill.ID})
		require.NoError(t, err)
		return r
	}
	bobToAlice := mk(bob.ID, alice.ID)
	aliceToCarol := mk(alice.ID, carol.ID)
	carolToBob := mk(carol.ID, bob.ID)

	got, err := f.swaps.ListRequests(ctx, alice.ID)
	require.NoError(t, err)
	ids := map[uint]*model.SwapRequestDetail{}
	for _, d := range got {
		ids[d.ID] = d
		assert.True(t, d.SenderID == alice.ID || d.ReceiverID == alice.ID)
		require.NotNil(t, d.Skill)
		require.NotNil(t, d.OtherUser)
		assert.NotEqual(t, alice.ID, d.OtherUser.ID)
	}
	require.Len(t, ids, 2)
	assert.Equal(t, "Bob", ids[bobToAlice.ID].OtherUser.Name)
	assert.Equal(t, "Carol", ids[aliceToCarol.ID].OtherUser.Name)
	assert.NotContains(t, ids, carolToBob.ID)

	none, err := f.swaps.ListRequests(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateStatusTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice@example.com", "Alice")
	bob := f.user(t, "bob@example.com", "Bob")
	carol := f.user(t, "carol@example.com", "Carol")
	skill := testutil.CreateSkill(t, f.db, alice.ID, "React", "Tech", model.SkillTypeTeach)

	req, err := f.swaps.CreateRequest(ctx, bob.ID, CreateRequestInput{ReceiverID: alice.ID, SkillID: skill.ID})
	require.NoError(t, err)

	_, err = f.swaps.UpdateStatus(ctx, alice.ID, req.ID, "cancelled")
	assertKind(t, err, model.KindValidation)
	_, err = f.swaps.UpdateStatus(ctx, alice.ID, req.ID, model.SwapStatusPending)
	assertKind(t, err, model.KindValidation)
	_, err = f.swaps.UpdateStatus(ctx, alice.ID, 999, model.SwapStatusAccepted)
	assertKind(t, err, model.KindNotFound)
	_, err = f.swaps.UpdateStatus(ctx, bob.ID, req.ID, model.SwapStatusAccepted)
	assertKind(t, err, model.KindForbidden)
	_, err = f.swaps.UpdateStatus(ctx, carol.ID, req.ID, model.SwapStatusAccepted)
	assertKind(t, err, model.KindForbidden)

	accepted, err := f.swaps.UpdateStatus(ctx, alice.ID, req.ID, model.SwapStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, model.SwapStatusAccepted, accepted.Status)

	// 终态不可再变更
	for _, status := range []model.SwapStatus{model.SwapStatusRejected, model.SwapStatusAccepted} {
		_, err = f.swaps.UpdateStatus(ctx, alice.ID, req.ID, status)
		assertKind(t, err, model.KindConflict)
		assert.Contains(t, err.Error(), "request is already accepted")
	}

	rej, err := f.swaps.CreateRequest(ctx, bob.ID, CreateRequestInput{ReceiverID: alice.ID, SkillID: skill.ID})
	require.NoError(t, err)
	rejected, err := f.swaps.UpdateStatus(ctx, alice.ID, rej.ID, model.SwapStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, model.SwapStatusRejected, rejected.Status)
	_, err = f.swaps.UpdateStatus(ctx, alice.ID, rej.ID, model.SwapStatusAccepted)
	assertKind(t, err, model.KindConflict)

	assert.Equal(t, []string{
		events.SwapRequestCreated,
		events.SwapRequestAccepted,
		events.SwapRequestCreated,
		events.SwapRequestRejected,
	}, f.publisher.published())
}

func TestUpdateStatusConcurrentAcceptsHaveOneWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice@example.com", "Alice")
	bob := f.user(t, "bob@example.com", "Bob")
	skill := testutil.CreateSkill(t, f.db, alice.ID, "React", "Tech", model.SkillTypeTeach)

	req, err := f.swaps.CreateRequest(ctx, bob.ID, CreateRequestInput{ReceiverID: alice.ID, SkillID: skill.ID})
	require.NoError(t, err)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			status := model.SwapStatusAccepted
			if i%2 == 1 {
				status = model.SwapStatusRejected
			}
			_, errs[i] = f.swaps.UpdateStatus(ctx, alice.ID, req.ID, status)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assertKind(t, err, model.KindConflict)
	}
	assert.Equal(t, 1, wins)
}
