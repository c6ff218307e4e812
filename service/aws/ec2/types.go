package awsec2

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/elC0mpa/costdrill/model"
	"github.com/go-logr/logr"
)

// EC2API is the subset of the EC2 client consumed by this service.
// Satisfied by *ec2.Client.
type EC2API interface {
	ec2.DescribeInstancesAPIClient
	ec2.DescribeVolumesAPIClient
}

type service struct {
	client EC2API
	region string
	log    logr.Logger
}

type InstanceService interface {
	ListInstances(ctx context.Context, includeTerminated bool) ([]model.EC2Instance, error)
	ListRunningInstances(ctx context.Context) ([]model.EC2Instance, error)
	ListStoppedInstances(ctx context.Context) ([]model.EC2Instance, error)
	ListInstancesByTag(ctx context.Context, tagKey, tagValue string) ([]model.EC2Instance, error)
	GetInstance(ctx context.Context, instanceID string) (*model.EC2Instance, error)
	GetVolumesForInstance(ctx context.Context, instanceID string) ([]model.EBSVolume, error)
}
