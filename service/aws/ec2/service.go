// Package awsec2 provides the EC2 instance inventory used to enrich
// billing data with instance metadata.
package awsec2

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/elC0mpa/costdrill/model"
	"github.com/go-logr/logr"
)

func NewService(cfg aws.Config, log logr.Logger) InstanceService {
	return &service{
		client: ec2.NewFromConfig(cfg),
		region: cfg.Region,
		log:    log.WithName("ec2"),
	}
}

// NewServiceWithClient wires an explicit API client, mainly for tests
func NewServiceWithClient(client EC2API, region string, log logr.Logger) InstanceService {
	return &service{client: client, region: region, log: log.WithName("ec2")}
}

// nonTerminatedStates lists every lifecycle state except terminated.
// Terminated instances linger in the API for about an hour after
// termination and are excluded from inventory listings by default.
var nonTerminatedStates = []string{
	string(model.StatePending),
	string(model.StateRunning),
	string(model.StateStopping),
	string(model.StateStopped),
	string(model.StateShuttingDown),
}

// ListInstances returns all instances of the region, paginating through
// the API. Terminated instances are excluded unless includeTerminated.
func (s *service) ListInstances(ctx context.Context, includeTerminated bool) ([]model.EC2Instance, error) {
	input := &ec2.DescribeInstancesInput{}
	if !includeTerminated {
		input.Filters = []types.Filter{{
			Name:   aws.String("instance-state-name"),
			Values: nonTerminatedStates,
		}}
	}
	return s.listInstances(ctx, input)
}

// ListRunningInstances returns only instances in the running state
func (s *service) ListRunningInstances(ctx context.Context) ([]model.EC2Instance, error) {
	return s.listInstances(ctx, &ec2.DescribeInstancesInput{
		Filters: []types.Filter{{
			Name:   aws.String("instance-state-name"),
			Values: []string{string(model.StateRunning)},
		}},
	})
}

// ListStoppedInstances returns only instances in the stopped state
func (s *service) ListStoppedInstances(ctx context.Context) ([]model.EC2Instance, error) {
	return s.listInstances(ctx, &ec2.DescribeInstancesInput{
		Filters: []types.Filter{{
			Name:   aws.String("instance-state-name"),
			Values: []string{string(model.StateStopped)},
		}},
	})
}

// ListInstancesByTag returns non-terminated instances carrying the tag
// key. An empty tagValue matches any value.
func (s *service) ListInstancesByTag(ctx context.Context, tagKey, tagValue string) ([]model.EC2Instance, error) {
	filters := []types.Filter{{
		Name:   aws.String("instance-state-name"),
		Values: nonTerminatedStates,
	}}
	if tagValue == "" {
		filters = append(filters, types.Filter{
			Name:   aws.String("tag-key"),
			Values: []string{tagKey},
		})
	} else {
		filters = append(filters, types.Filter{
			Name:   aws.String("tag:" + tagKey),
			Values: []string{tagValue},
		})
	}
	return s.listInstances(ctx, &ec2.DescribeInstancesInput{Filters: filters})
}

func (s *service) listInstances(ctx context.Context, input *ec2.DescribeInstancesInput) ([]model.EC2Instance, error) {
	var instances []model.EC2Instance

	paginator := ec2.NewDescribeInstancesPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, mapError(err)
		}
		for _, reservation := range page.Reservations {
			for _, inst := range reservation.Instances {
				instances = append(instances, s.parseInstance(inst))
			}
		}
	}

	if err := s.attachVolumeDetails(ctx, instances); err != nil {
		// inventory without volume sizes is still useful
		s.log.Error(err, "could not describe volumes, sizes will be missing")
	}

	s.log.V(1).Info("listed instances", "region", s.region, "count", len(instances))
	return instances, nil
}

// GetInstance returns a single instance by ID, including terminated ones
func (s *service) GetInstance(ctx context.Context, instanceID string) (*model.EC2Instance, error) {
	out, err := s.client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		return nil, mapError(err)
	}

	for _, reservation := range out.Reservations {
		for _, inst := range reservation.Instances {
			instance := s.parseInstance(inst)
			volumes, verr := s.GetVolumesForInstance(ctx, instanceID)
			if verr != nil {
				s.log.Error(verr, "could not describe volumes", "instance_id", instanceID)
			} else {
				instance.EBSVolumes = volumes
			}
			return &instance, nil
		}
	}
	return nil, &model.ResourceNotFoundError{ResourceType: "EC2 instance", ResourceID: instanceID}
}

// GetVolumesForInstance returns the EBS volumes attached to an instance
func (s *service) GetVolumesForInstance(ctx context.Context, instanceID string) ([]model.EBSVolume, error) {
	input := &ec2.DescribeVolumesInput{
		Filters: []types.Filter{{
			Name:   aws.String("attachment.instance-id"),
			Values: []string{instanceID},
		}},
	}

	var volumes []model.EBSVolume
	paginator := ec2.NewDescribeVolumesPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, mapError(err)
		}
		for _, vol := range page.Volumes {
			volumes = append(volumes, parseVolume(vol, instanceID))
		}
	}
	return volumes, nil
}

// attachVolumeDetails fills in size and type for the volumes referenced
// by the instances' block device mappings, using one query per batch
// instead of one per instance
func (s *service) attachVolumeDetails(ctx context.Context, instances []model.EC2Instance) error {
	var volumeIDs []string
	for _, inst := range instances {
		for _, vol := range inst.EBSVolumes {
			volumeIDs = append(volumeIDs, vol.VolumeID)
		}
	}
	if len(volumeIDs) == 0 {
		return nil
	}

	details := make(map[string]types.Volume, len(volumeIDs))
	paginator := ec2.NewDescribeVolumesPaginator(s.client, &ec2.DescribeVolumesInput{
		VolumeIds: volumeIDs,
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return mapError(err)
		}
		for _, vol := range page.Volumes {
			details[aws.ToString(vol.VolumeId)] = vol
		}
	}

	for i := range instances {
		for j := range instances[i].EBSVolumes {
			vol, ok := details[instances[i].EBSVolumes[j].VolumeID]
			if !ok {
				continue
			}
			instances[i].EBSVolumes[j].SizeGB = aws.ToInt32(vol.Size)
			instances[i].EBSVolumes[j].VolumeType = string(vol.VolumeType)
			instances[i].EBSVolumes[j].IOPS = vol.Iops
			instances[i].EBSVolumes[j].Throughput = vol.Throughput
		}
	}
	return nil
}

func (s *service) parseInstance(inst types.Instance) model.EC2Instance {
	instance := model.EC2Instance{
		InstanceID:   aws.ToString(inst.InstanceId),
		InstanceType: string(inst.InstanceType),
		Region:       s.region,
		LaunchTime:   aws.ToTime(inst.LaunchTime),
		Platform:     platformOf(inst),
		VpcID:        aws.ToString(inst.VpcId),
		SubnetID:     aws.ToString(inst.SubnetId),
		PrivateIP:    aws.ToString(inst.PrivateIpAddress),
		PublicIP:     aws.ToString(inst.PublicIpAddress),
		KeyName:      aws.ToString(inst.KeyName),
	}

	if inst.State != nil {
		instance.State = model.InstanceState(inst.State.Name)
	}
	if inst.Placement != nil {
		instance.AvailabilityZone = aws.ToString(inst.Placement.AvailabilityZone)
		instance.Tenancy = string(inst.Placement.Tenancy)
	}
	if inst.IamInstanceProfile != nil {
		instance.IamInstanceProfile = aws.ToString(inst.IamInstanceProfile.Arn)
	}
	if inst.Monitoring != nil {
		instance.MonitoringEnabled = inst.Monitoring.State == types.MonitoringStateEnabled
	}

	if len(inst.Tags) > 0 {
		instance.Tags = make(map[string]string, len(inst.Tags))
		for _, tag := range inst.Tags {
			instance.Tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
		}
	}

	for _, sg := range inst.SecurityGroups {
		instance.SecurityGroups = append(instance.SecurityGroups, aws.ToString(sg.GroupName))
	}

	// block device mappings carry ids only; attachVolumeDetails fills sizes
	for _, mapping := range inst.BlockDeviceMappings {
		if mapping.Ebs == nil {
			continue
		}
		instance.EBSVolumes = append(instance.EBSVolumes, model.EBSVolume{
			VolumeID:            aws.ToString(mapping.Ebs.VolumeId),
			DeviceName:          aws.ToString(mapping.DeviceName),
			State:               string(mapping.Ebs.Status),
			DeleteOnTermination: aws.ToBool(mapping.Ebs.DeleteOnTermination),
		})
	}

	return instance
}

func parseVolume(vol types.Volume, instanceID string) model.EBSVolume {
	volume := model.EBSVolume{
		VolumeID:   aws.ToString(vol.VolumeId),
		SizeGB:     aws.ToInt32(vol.Size),
		VolumeType: string(vol.VolumeType),
		IOPS:       vol.Iops,
		Throughput: vol.Throughput,
		State:      string(vol.State),
	}
	for _, att := range vol.Attachments {
		if aws.ToString(att.InstanceId) == instanceID {
			volume.DeviceName = aws.ToString(att.Device)
			volume.DeleteOnTermination = aws.ToBool(att.DeleteOnTermination)
		}
	}
	return volume
}

func platformOf(inst types.Instance) string {
	if details := aws.ToString(inst.PlatformDetails); details != "" {
		return details
	}
	if inst.Platform != "" {
		return string(inst.Platform)
	}
	return "Linux/UNIX"
}
